package receipt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
)

func TestClassify_EmptyText(t *testing.T) {
	v := Classify(model.Receipt{})
	assert.False(t, v.IsPayment)
	assert.False(t, v.Strong)
	assert.Zero(t, v.Score)
	assert.Equal(t, []string{"empty_text"}, v.Reasons)
}

func TestClassify_RicherTextScoresHigher(t *testing.T) {
	plain := Classify(model.Receipt{Text: "lista de compras: arroz feijao"})

	rich := Classify(model.Receipt{
		Text:   "COMPROVANTE\nTOTAL 25,50\n10,00",
		Values: []decimal.Decimal{decimal.RequireFromString("25.5"), decimal.RequireFromString("10")},
		Date:   dates.Day(2025, time.March, 14),
	})

	assert.Greater(t, rich.Score, plain.Score)
	assert.Contains(t, rich.Reasons, "kw:comprovante")
	assert.Contains(t, rich.Reasons, "valkw:total")
	assert.Contains(t, rich.Reasons, "values_count:2")
	assert.Contains(t, rich.Reasons, "has_date")

	// comprovante 1.5 + total 2.0 + two values 2.0 + date 1.5 = 7.0 / 15
	assert.InDelta(t, 7.0/15.0, rich.Score, 1e-9)
	assert.True(t, rich.IsPayment)
	assert.False(t, rich.Strong)
}

func TestClassify_FullReceiptIsStrong(t *testing.T) {
	v := Classify(Parse(pixReceipt))
	assert.True(t, v.IsPayment)
	assert.True(t, v.Strong)
	assert.LessOrEqual(t, v.Score, 1.0)
	assert.Equal(t, model.DispositionAutoFile, v.Disposition())
}

func TestClassify_Caps(t *testing.T) {
	text := strings.Join(strongKeywords, " ") + " " + strings.Join(valueKeywords, " ")
	v := Classify(model.Receipt{Text: text})
	// 6*1.5 + 3*2.0 = 15 hits the ceiling
	assert.InDelta(t, 1.0, v.Score, 1e-9)

	values := make([]decimal.Decimal, 10)
	for i := range values {
		values[i] = decimal.NewFromInt(int64(i))
	}
	few := Classify(model.Receipt{Text: "x", Values: values[:4]})
	many := Classify(model.Receipt{Text: "x", Values: values})
	assert.Equal(t, few.Score, many.Score)
	assert.Contains(t, many.Reasons, "values_count:10")
}

func TestClassify_StrongImpliesPayment(t *testing.T) {
	words := append(append([]string{}, strongKeywords...), valueKeywords...)
	for n := 0; n <= len(words); n++ {
		for values := 0; values <= 5; values++ {
			for _, withDate := range []bool{false, true} {
				r := model.Receipt{Text: "recibo? " + strings.Join(words[:n], " ")}
				for i := 0; i < values; i++ {
					r.Values = append(r.Values, decimal.NewFromInt(int64(i)))
				}
				if withDate {
					r.Date = dates.Day(2025, time.January, 1)
				}
				v := Classify(r)
				name := fmt.Sprintf("n=%d values=%d date=%v", n, values, withDate)
				assert.GreaterOrEqual(t, v.Score, 0.0, name)
				assert.LessOrEqual(t, v.Score, 1.0, name)
				if v.Strong {
					assert.True(t, v.IsPayment, name)
				}
			}
		}
	}
}

func TestClassify_CustomScoring(t *testing.T) {
	s := DefaultScoring()
	s.PaymentThreshold = 0.05
	s.StrongThreshold = 0.1
	require.NoError(t, s.Validate())

	v := NewClassifier(s).Classify(model.Receipt{Text: "recibo"})
	assert.True(t, v.IsPayment)
	assert.True(t, v.Strong)
}

func TestScoring_Validate(t *testing.T) {
	require.NoError(t, DefaultScoring().Validate())

	s := DefaultScoring()
	s.StrongThreshold = 0.2
	assert.Error(t, s.Validate())

	s = DefaultScoring()
	s.Ceiling = 0
	assert.Error(t, s.Validate())

	s = DefaultScoring()
	s.ValueCap = -1
	assert.Error(t, s.Validate())
}
