package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/model"
)

// maxDescription is the rune limit of a receipt description.
const maxDescription = 200

const defaultDescription = "Comprovante"

// TextSource yields OCR text for an image.
type TextSource interface {
	Text(ctx context.Context, imagePath string) (string, error)
}

// Parse reads total, date and description out of OCR text.
func Parse(text string) model.Receipt {
	ex := Extract(text)

	r := model.Receipt{
		Text:        text,
		Description: describe(ex.Lines),
	}

	if total, ok := ChooseTotal(ex.Pairs); ok {
		r.Total = decimal.NewNullDecimal(total)
	}
	if len(ex.Dates) > 0 {
		r.Date = ex.Dates[0]
	}
	for _, p := range ex.Pairs {
		r.Values = append(r.Values, p.Amount)
	}
	return r
}

// ParseImage runs OCR on an image and parses the result.
func ParseImage(ctx context.Context, src TextSource, imagePath string) (model.Receipt, error) {
	text, err := src.Text(ctx, imagePath)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("reading receipt %s: %w", imagePath, err)
	}
	return Parse(text), nil
}

// Expense files a parsed receipt as an expense dated on the receipt, or on
// today when it carries no date. It reports false when no total was found.
func Expense(parsed model.Receipt, today time.Time) (model.Transaction, bool) {
	if !parsed.Total.Valid {
		return model.Transaction{}, false
	}
	date := parsed.Date
	if !parsed.HasDate() {
		date = today
	}
	desc := parsed.Description
	if desc == "" {
		desc = defaultDescription
	}
	return model.Transaction{
		Amount:      parsed.Total.Decimal.Abs().Neg(),
		Date:        date,
		Description: desc,
	}, true
}

// describe returns the first line without an amount, truncated.
func describe(lines []string) string {
	for _, l := range lines {
		if amountRe.MatchString(l) {
			continue
		}
		if r := []rune(l); len(r) > maxDescription {
			return string(r[:maxDescription])
		}
		return l
	}
	return ""
}
