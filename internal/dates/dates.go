package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrDateResolution is returned when a date token is malformed or names an impossible date.
var ErrDateResolution = errors.New("invalid date")

const dmyLayout = "02/01/2006"

// Day returns the calendar date y-m-d as midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day from t, keeping its calendar date in t's location.
func Truncate(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// Valid builds y-m-d and reports whether it is a real calendar date.
func Valid(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, false
	}
	d := Day(year, time.Month(month), day)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

// Resolve turns a user date token into a calendar date relative to today.
//
// Accepted forms are "hoje", "ontem", "amanha"/"amanhã", "DD/MM/YYYY", "DD/MM/YY"
// (20YY) and "DD/MM". A day/month without a year that would fall after today is
// taken as last year's occurrence.
func Resolve(token string, today time.Time) (time.Time, error) {
	today = Truncate(today)
	tok := strings.ToLower(strings.TrimSpace(token))

	switch tok {
	case "hoje":
		return today, nil
	case "ontem":
		return today.AddDate(0, 0, -1), nil
	case "amanha", "amanhã":
		return today.AddDate(0, 0, 1), nil
	}

	parts := strings.Split(tok, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateResolution, token)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a number", ErrDateResolution, p)
		}
		nums[i] = n
	}

	day, month := nums[0], nums[1]
	year := today.Year()
	if len(nums) == 3 {
		year = nums[2]
		if year < 100 {
			year += 2000
		}
	}

	d, ok := Valid(year, month, day)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateResolution, token)
	}

	if len(nums) == 2 && d.After(today) {
		d, ok = Valid(year-1, month, day)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q", ErrDateResolution, token)
		}
	}
	return d, nil
}

// ParseDMY parses a full "DD/MM/YYYY" date, as used by report range flags.
func ParseDMY(s string) (time.Time, error) {
	t, err := time.Parse(dmyLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected DD/MM/YYYY)", ErrDateResolution, s)
	}
	return t, nil
}

// FormatDMY renders a date as "DD/MM/YYYY".
func FormatDMY(t time.Time) string {
	return t.Format(dmyLayout)
}

// MonthRange returns the first and last calendar day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := Day(t.Year(), t.Month(), 1)
	return first, first.AddDate(0, 1, -1)
}
