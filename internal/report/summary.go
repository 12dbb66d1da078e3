// Package report renders summaries, statements and exports of stored transactions.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
)

// Summary totals a set of transactions.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal // positive magnitude
	Balance  decimal.Decimal
	Count    int
}

// Summarize adds up income and expenses.
func Summarize(txns []model.StoredTransaction) Summary {
	var s Summary
	for _, t := range txns {
		if t.IsExpense() {
			s.Expenses = s.Expenses.Add(t.Amount.Neg())
		} else {
			s.Income = s.Income.Add(t.Amount)
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// FormatBRL renders an amount as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), frac)
}

// FormatSummary renders s for a chat reply.
func FormatSummary(title string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", title)
	fmt.Fprintf(&b, "✅ Ganhos: %s\n", FormatBRL(s.Income))
	fmt.Fprintf(&b, "❌ Gastos: %s\n", FormatBRL(s.Expenses))
	fmt.Fprintf(&b, "💰 Saldo: %s", FormatBRL(s.Balance))
	return b.String()
}

// Statement renders txns one per line followed by the summary.
func Statement(title string, txns []model.StoredTransaction) string {
	if len(txns) == 0 {
		return "Nenhuma transação encontrada no período."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 %s\n\n", title)
	for _, t := range txns {
		mark := "➕"
		if t.IsExpense() {
			mark = "➖"
		}
		fmt.Fprintf(&b, "%s %s %s", mark, dates.FormatDMY(t.Date), FormatBRL(t.Amount))
		if t.Description != "" {
			fmt.Fprintf(&b, " · %s", t.Description)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	s := Summarize(txns)
	fmt.Fprintf(&b, "Ganhos %s · Gastos %s · Saldo %s", FormatBRL(s.Income), FormatBRL(s.Expenses), FormatBRL(s.Balance))
	return b.String()
}
