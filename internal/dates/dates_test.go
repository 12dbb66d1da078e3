package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june1 = Day(2025, time.June, 1)

func TestResolve_Keywords(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
	}{
		{"hoje", june1},
		{"  HOJE ", june1},
		{"ontem", Day(2025, time.May, 31)},
		{"amanha", Day(2025, time.June, 2)},
		{"amanhã", Day(2025, time.June, 2)},
		{"Amanhã", Day(2025, time.June, 2)},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.token, june1)
		require.NoError(t, err, "Resolve(%q)", tt.token)
		assert.Equal(t, tt.want, got, "Resolve(%q)", tt.token)
	}
}

func TestResolve_IgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)
	got, err := Resolve("hoje", now)
	require.NoError(t, err)
	assert.Equal(t, june1, got)
}

func TestResolve_FullDates(t *testing.T) {
	tests := []struct {
		token string
		want  time.Time
	}{
		{"15/03/2024", Day(2024, time.March, 15)},
		{"1/2/2023", Day(2023, time.February, 1)},
		{"15/03/24", Day(2024, time.March, 15)},
		{"31/12/99", Day(2099, time.December, 31)},
		{"05/07/00", Day(2000, time.July, 5)},
		{"29/02/2024", Day(2024, time.February, 29)},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.token, june1)
		require.NoError(t, err, "Resolve(%q)", tt.token)
		assert.Equal(t, tt.want, got, "Resolve(%q)", tt.token)
	}
}

func TestResolve_DayMonthPriorYear(t *testing.T) {
	today := Day(2025, time.January, 15)

	got, err := Resolve("25/10", today)
	require.NoError(t, err)
	assert.Equal(t, Day(2024, time.October, 25), got)

	got, err = Resolve("10/01", today)
	require.NoError(t, err)
	assert.Equal(t, Day(2025, time.January, 10), got)

	// Today itself is not in the future.
	got, err = Resolve("15/01", today)
	require.NoError(t, err)
	assert.Equal(t, today, got)
}

func TestResolve_Errors(t *testing.T) {
	for _, token := range []string{
		"",
		"depois",
		"31/04/2025",
		"29/02/2025",
		"32/01",
		"10/13",
		"aa/bb",
		"1/2/3/4",
		"15-03-2025",
	} {
		_, err := Resolve(token, june1)
		assert.ErrorIs(t, err, ErrDateResolution, "Resolve(%q)", token)
	}
}

func TestParseDMY(t *testing.T) {
	got, err := ParseDMY("05/03/2025")
	require.NoError(t, err)
	assert.Equal(t, Day(2025, time.March, 5), got)
	assert.Equal(t, "05/03/2025", FormatDMY(got))

	_, err = ParseDMY("2025-03-05")
	assert.ErrorIs(t, err, ErrDateResolution)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(Day(2024, time.February, 10))
	assert.Equal(t, Day(2024, time.February, 1), first)
	assert.Equal(t, Day(2024, time.February, 29), last)
}

func TestFixedClock(t *testing.T) {
	c := FixedClock(time.Date(2025, time.June, 1, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, june1, c.Today())
}

func TestValid(t *testing.T) {
	_, ok := Valid(2025, 2, 29)
	assert.False(t, ok)
	d, ok := Valid(2024, 2, 29)
	assert.True(t, ok)
	assert.Equal(t, 29, d.Day())
}
