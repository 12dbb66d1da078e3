package receipt

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/model"
)

// ChooseTotal picks the receipt total: the amount on the first line mentioning
// a total keyword, otherwise the largest amount (first one on ties).
func ChooseTotal(pairs []model.LineAmount) (decimal.Decimal, bool) {
	if len(pairs) == 0 {
		return decimal.Decimal{}, false
	}

	for _, p := range pairs {
		if containsAny(strings.ToLower(p.Line), totalKeywords) {
			return p.Amount, true
		}
	}

	best := pairs[0].Amount
	for _, p := range pairs[1:] {
		if p.Amount.GreaterThan(best) {
			best = p.Amount
		}
	}
	return best, true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
