// Package txparse turns chat lines like "-45,90;ontem;mercado" into transactions.
package txparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
)

// DefaultMaxLines is the batch ceiling used when none is configured.
const DefaultMaxLines = 20

var (
	lineRe   = regexp.MustCompile(`^\s*([+-]?\d+(?:[.,]\d{1,2})?)\s*;([^;]*);?(.*)$`)
	amountRe = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d{1,2})?$`)
)

const (
	grpAmount = 1
	grpDate   = 2
	grpDesc   = 3
)

// Batch is the per-line result of one message, in input order.
type Batch struct {
	Outcomes []model.LineOutcome
}

// Successes returns the parsed transactions in input order.
func (b Batch) Successes() []model.Transaction {
	var txns []model.Transaction
	for _, o := range b.Outcomes {
		if o.OK() {
			txns = append(txns, o.Transaction)
		}
	}
	return txns
}

// Failures returns the outcomes of lines that could not be parsed.
func (b Batch) Failures() []model.LineOutcome {
	var failed []model.LineOutcome
	for _, o := range b.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// SplitLines returns the non-blank lines of a message, trimmed.
func SplitLines(message string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ParseBatch parses every line of message. A message with more than maxLines
// non-blank lines is rejected as a whole; otherwise bad lines become failed
// outcomes and the rest still parse. maxLines <= 0 uses DefaultMaxLines.
func ParseBatch(message string, today time.Time, maxLines int) (Batch, error) {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	lines := SplitLines(message)
	if len(lines) > maxLines {
		return Batch{}, &BatchTooLargeError{Lines: len(lines), Max: maxLines}
	}

	outcomes := make([]model.LineOutcome, 0, len(lines))
	for _, line := range lines {
		txn, err := ParseLine(line, today)
		outcomes = append(outcomes, model.LineOutcome{Line: line, Transaction: txn, Err: err})
	}
	return Batch{Outcomes: outcomes}, nil
}

// ParseLine parses a single "value;date[;description]" line.
func ParseLine(line string, today time.Time) (model.Transaction, error) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return model.Transaction{}, fmt.Errorf("%w: %q", ErrGrammarMismatch, line)
	}

	dateTok := strings.TrimSpace(m[grpDate])
	if dateTok == "" {
		return model.Transaction{}, fmt.Errorf("%w: missing date in %q", ErrGrammarMismatch, line)
	}

	amount, err := ParseAmount(m[grpAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := dates.Resolve(dateTok, today)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", dateTok, err)
	}

	return model.Transaction{
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(m[grpDesc]),
	}, nil
}

// ParseAmount parses a signed amount such as "+1200", "-45,9" or "10.50".
// A missing sign means income.
func ParseAmount(token string) (decimal.Decimal, error) {
	tok := strings.TrimSpace(token)
	if !amountRe.MatchString(tok) {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q", ErrGrammarMismatch, token)
	}
	tok = strings.TrimPrefix(strings.Replace(tok, ",", ".", 1), "+")
	amount, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", token, err)
	}
	return amount, nil
}
