package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a parsed, not-yet-stored money movement.
type Transaction struct {
	Amount      decimal.Decimal // negative = expense, positive = income
	Date        time.Time
	Description string
}

// IsIncome reports whether the transaction adds money (zero counts as income).
func (t Transaction) IsIncome() bool { return !t.Amount.IsNegative() }

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// StoredTransaction is a Transaction persisted for a user.
type StoredTransaction struct {
	Transaction
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

// ExportRow is one line of the transactions export, joined with the user's name.
type ExportRow struct {
	UserID      int64
	Username    string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// LineOutcome is the result of parsing one line of a batch message.
// A nil Err means the line produced Transaction.
type LineOutcome struct {
	Line        string
	Transaction Transaction
	Err         error
}

// OK reports whether the line parsed successfully.
func (o LineOutcome) OK() bool { return o.Err == nil }
