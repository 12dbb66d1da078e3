// Package receipt reads amounts, dates and totals out of OCR text and decides
// whether the text looks like a payment receipt.
package receipt

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
)

// Extract finds every amount and date in OCR text. It never fails: fragments
// that do not parse are skipped, so the result may be empty.
func Extract(text string) model.Extraction {
	var ex model.Extraction
	ex.Lines = splitLines(text)
	if len(ex.Lines) == 0 {
		return ex
	}

	for _, line := range ex.Lines {
		for _, amount := range lineAmounts(line) {
			ex.Amounts = append(ex.Amounts, amount)
			ex.Pairs = append(ex.Pairs, model.LineAmount{Line: line, Amount: amount})
		}
	}

	var candidates []time.Time
	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := dayFirst(m[1], m[2], m[3]); ok {
			candidates = append(candidates, d)
		}
	}
	for _, line := range ex.Lines {
		if d, ok := fuzzyDate(line); ok {
			candidates = append(candidates, d)
		}
	}
	ex.Dates = dedupeDates(candidates)

	return ex
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func lineAmounts(line string) []decimal.Decimal {
	var amounts []decimal.Decimal
	for _, m := range amountRe.FindAllStringSubmatch(line, -1) {
		if amount, ok := normalizeAmount(m[1]); ok {
			amounts = append(amounts, amount)
		}
	}
	return amounts
}

// normalizeAmount converts a matched amount to a decimal. Every match ends in a
// separator plus two digits; that separator is the decimal point and any other
// dot or space is a thousands separator.
func normalizeAmount(s string) (decimal.Decimal, bool) {
	s = strings.Join(strings.Fields(s), "")
	if len(s) < 4 {
		return decimal.Decimal{}, false
	}
	intPart := strings.ReplaceAll(s[:len(s)-3], ".", "")
	fracPart := s[len(s)-2:]
	d, err := decimal.NewFromString(strings.TrimPrefix(intPart, "+") + "." + fracPart)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// dayFirst builds a date from day, month and year strings, retrying month-first
// when the day-first reading is impossible (e.g. "03/15/2025").
func dayFirst(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, err1 := strconv.Atoi(dayStr)
	month, err2 := strconv.Atoi(monthStr)
	year, err3 := strconv.Atoi(yearStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	year, ok := normalizeYear(year, len(yearStr))
	if !ok {
		return time.Time{}, false
	}
	if d, ok := dates.Valid(year, month, day); ok {
		return d, true
	}
	return dates.Valid(year, day, month)
}

func normalizeYear(year, digits int) (int, bool) {
	switch digits {
	case 2:
		return 2000 + year, true
	case 4:
		return year, true
	default:
		return 0, false
	}
}

type dateMatch struct {
	pos  int
	date time.Time
}

// fuzzyDate returns the leftmost date written anywhere in a line of prose.
func fuzzyDate(line string) (time.Time, bool) {
	var found []dateMatch

	// amountTail rejects a match whose year runs into ",50" or ".50": it was an amount.
	collect := func(re *regexp.Regexp, amountTail bool, build func(m []string) (time.Time, bool)) {
		for _, idx := range re.FindAllStringSubmatchIndex(line, -1) {
			if amountTail && fractionFollows(line, idx[1]) {
				continue
			}
			m := make([]string, len(idx)/2)
			for i := range m {
				if idx[2*i] >= 0 {
					m[i] = line[idx[2*i]:idx[2*i+1]]
				}
			}
			if d, ok := build(m); ok {
				found = append(found, dateMatch{pos: idx[0], date: d})
			}
		}
	}

	collect(numericDateRe, false, func(m []string) (time.Time, bool) { return dayFirst(m[1], m[2], m[3]) })
	collect(dottedDateRe, false, func(m []string) (time.Time, bool) { return dayFirst(m[1], m[2], m[3]) })
	collect(isoDateRe, false, func(m []string) (time.Time, bool) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return dates.Valid(year, month, day)
	})
	collect(namedDateRe, true, func(m []string) (time.Time, bool) {
		month, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		year, ok = normalizeYear(year, len(m[3]))
		if !ok {
			return time.Time{}, false
		}
		return dates.Valid(year, int(month), day)
	})

	if len(found) == 0 {
		return time.Time{}, false
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	return found[0].date, true
}

// fractionFollows reports whether line continues at end with a decimal
// separator and a digit.
func fractionFollows(line string, end int) bool {
	if end+1 >= len(line) {
		return false
	}
	c := line[end]
	return (c == ',' || c == '.') && line[end+1] >= '0' && line[end+1] <= '9'
}

func dedupeDates(candidates []time.Time) []time.Time {
	var out []time.Time
	seen := make(map[string]bool, len(candidates))
	for _, d := range candidates {
		key := d.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
