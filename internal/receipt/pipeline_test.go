package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixa-dev/caixa/internal/dates"
)

type fakeSource struct {
	text string
	err  error
}

func (f fakeSource) Text(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func TestParse_Receipt(t *testing.T) {
	r := Parse(pixReceipt)
	assert.Equal(t, pixReceipt, r.Text)
	require.True(t, r.Total.Valid)
	assert.Equal(t, "1234.56", r.Total.Decimal.StringFixed(2))
	assert.Equal(t, dates.Day(2025, time.March, 14), r.Date)
	assert.Equal(t, "Comprovante de Transferência", r.Description)
	assert.Len(t, r.Values, 1)
}

func TestParse_Empty(t *testing.T) {
	r := Parse("")
	assert.False(t, r.Total.Valid)
	assert.False(t, r.HasDate())
	assert.Equal(t, "", r.Description)
	assert.Empty(t, r.Values)
}

func TestParse_NoDescriptionWhenEveryLineHasAmount(t *testing.T) {
	r := Parse("10,00\ntotal 20,00")
	assert.Equal(t, "", r.Description)
	assert.Equal(t, "20.00", r.Total.Decimal.StringFixed(2))
}

func TestParse_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("ç", 250)
	r := Parse(long + "\ntotal 5,00")
	assert.Equal(t, 200, len([]rune(r.Description)))
}

func TestParseImage(t *testing.T) {
	r, err := ParseImage(context.Background(), fakeSource{text: "Mercado\nTotal 42,90"}, "nota.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Mercado", r.Description)
	assert.Equal(t, "42.90", r.Total.Decimal.StringFixed(2))
}

func TestParseImage_SourceError(t *testing.T) {
	boom := errors.New("engine offline")
	_, err := ParseImage(context.Background(), fakeSource{err: boom}, "nota.jpg")
	assert.ErrorIs(t, err, boom)
}

func TestExpense(t *testing.T) {
	today := dates.Day(2025, time.June, 15)

	txn, ok := Expense(Parse(pixReceipt), today)
	require.True(t, ok)
	assert.Equal(t, "-1234.56", txn.Amount.StringFixed(2))
	assert.Equal(t, dates.Day(2025, time.March, 14), txn.Date)
	assert.Equal(t, "Comprovante de Transferência", txn.Description)

	txn, ok = Expense(Parse("10,00\ntotal 20,00"), today)
	require.True(t, ok)
	assert.Equal(t, today, txn.Date)
	assert.Equal(t, "Comprovante", txn.Description)

	_, ok = Expense(Parse("nada aqui"), today)
	assert.False(t, ok)
}
