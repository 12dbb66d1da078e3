package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineAmount pairs an amount with the OCR line it was found on.
type LineAmount struct {
	Line   string
	Amount decimal.Decimal
}

// Extraction holds every amount and date found in OCR text.
type Extraction struct {
	Amounts []decimal.Decimal
	Dates   []time.Time // deduplicated, first-seen order
	Lines   []string
	Pairs   []LineAmount
}

// Receipt is the structured reading of one receipt image.
type Receipt struct {
	Text        string
	Total       decimal.NullDecimal
	Date        time.Time // zero when no date was found
	Description string    // empty when every line carries an amount
	Values      []decimal.Decimal
}

// HasDate reports whether a date was extracted.
func (r Receipt) HasDate() bool { return !r.Date.IsZero() }

// Disposition is what the assistant should do with a classified receipt.
type Disposition string

const (
	DispositionAutoFile Disposition = "auto-file"
	DispositionConfirm  Disposition = "confirm"
	DispositionReject   Disposition = "reject"
)

// Verdict is the payment classifier's decision about a receipt.
type Verdict struct {
	IsPayment bool
	Score     float64 // normalized to [0, 1]
	Strong    bool    // implies IsPayment
	Reasons   []string
}

// Disposition maps the verdict onto the three outward actions.
func (v Verdict) Disposition() Disposition {
	switch {
	case v.Strong:
		return DispositionAutoFile
	case v.IsPayment:
		return DispositionConfirm
	default:
		return DispositionReject
	}
}
