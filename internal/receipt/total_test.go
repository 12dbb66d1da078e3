package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/caixa-dev/caixa/internal/model"
)

func pair(line, amount string) model.LineAmount {
	return model.LineAmount{Line: line, Amount: decimal.RequireFromString(amount)}
}

func TestChooseTotal_Empty(t *testing.T) {
	_, ok := ChooseTotal(nil)
	assert.False(t, ok)
}

func TestChooseTotal_KeywordWins(t *testing.T) {
	got, ok := ChooseTotal([]model.LineAmount{
		pair("subtotal 10,00", "10.0"),
		pair("total: 25,50", "25.5"),
	})
	assert.True(t, ok)
	assert.Equal(t, "25.50", got.StringFixed(2))
}

func TestChooseTotal_FirstKeywordMatchNotLargest(t *testing.T) {
	got, ok := ChooseTotal([]model.LineAmount{
		pair("item 99,00", "99"),
		pair("VALOR A PAGAR 30,00", "30"),
		pair("total 45,00", "45"),
	})
	assert.True(t, ok)
	assert.Equal(t, "30.00", got.StringFixed(2))
}

func TestChooseTotal_MaxFallback(t *testing.T) {
	got, ok := ChooseTotal([]model.LineAmount{
		pair("item a", "5.0"),
		pair("item b", "12.0"),
	})
	assert.True(t, ok)
	assert.Equal(t, "12.00", got.StringFixed(2))
}

func TestChooseTotal_TieKeepsFirst(t *testing.T) {
	first := decimal.RequireFromString("12.0")
	got, ok := ChooseTotal([]model.LineAmount{
		{Line: "item a", Amount: first},
		{Line: "item b", Amount: decimal.RequireFromString("12.00")},
	})
	assert.True(t, ok)
	assert.Equal(t, first, got)
}
