package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	morning := time.Date(2026, 3, 5, 0, 0, 1, 0, time.Local)
	night := time.Date(2026, 3, 5, 23, 59, 59, 0, time.Local)

	assert.Equal(t, "2026-03-05", DayKey(morning))
	assert.Equal(t, DayKey(morning), DayKey(night))
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{
			name:     "Same day",
			from:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local),
			expected: 0,
		},
		{
			name:     "Three exact months",
			from:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 4, 15, 0, 0, 0, 0, time.Local),
			expected: 3,
		},
		{
			name:     "Day of month not yet reached",
			from:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 4, 14, 0, 0, 0, 0, time.Local),
			expected: 2,
		},
		{
			name:     "One day past the month boundary",
			from:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 2, 16, 0, 0, 0, 0, time.Local),
			expected: 1,
		},
		{
			name:     "Across a year boundary",
			from:     time.Date(2025, 11, 10, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local),
			expected: 3,
		},
		{
			name:     "To before from floors at zero",
			from:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local),
			to:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WholeMonthsBetween(tt.from, tt.to))
		})
	}
}

func TestStartOfISOWeek(t *testing.T) {
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"Monday itself", time.Date(2026, 8, 31, 15, 30, 0, 0, time.Local)},
		{"Wednesday", time.Date(2026, 9, 2, 9, 0, 0, 0, time.Local)},
		{"Sunday maps to previous Monday", time.Date(2026, 9, 6, 23, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, StartOfISOWeek(tt.in))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	base := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)

	assert.Equal(t, 0, DaysUntil(base, time.Date(2026, 8, 31, 1, 0, 0, 0, time.Local)))
	assert.Equal(t, 3, DaysUntil(base, time.Date(2026, 9, 3, 1, 0, 0, 0, time.Local)))
	assert.Equal(t, -1, DaysUntil(base, time.Date(2026, 8, 30, 23, 0, 0, 0, time.Local)))
}

func TestDaysUntil_AcrossDSTTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 is a 23-hour day (spring forward), 2026-11-01 a 25-hour day
	// (fall back). Day distance must come from the calendar, not elapsed hours.
	springForward := time.Date(2026, 3, 8, 10, 0, 0, 0, loc)
	fallBack := time.Date(2026, 11, 1, 10, 0, 0, 0, loc)

	assert.Equal(t, 0, DaysUntil(springForward, time.Date(2026, 3, 8, 23, 0, 0, 0, loc)))
	assert.Equal(t, 1, DaysUntil(springForward, time.Date(2026, 3, 9, 0, 0, 0, 0, loc)))
	assert.Equal(t, 3, DaysUntil(springForward, time.Date(2026, 3, 11, 1, 0, 0, 0, loc)))
	assert.Equal(t, 1, DaysUntil(fallBack, time.Date(2026, 11, 2, 0, 0, 0, 0, loc)))
}

func TestRound2(t *testing.T) {
	assert.True(t, Round2(decimal.NewFromFloat(33.333)).Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, Round2(decimal.NewFromFloat(33.335)).Equal(decimal.NewFromFloat(33.34)))
	assert.True(t, Round2(decimal.NewFromFloat(-33.335)).Equal(decimal.NewFromFloat(-33.34)))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$25.50", FormatMoney(decimal.NewFromFloat(25.5)))
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2026-01-02", FormatDate(&d, "sin fecha"))
	assert.Equal(t, "sin fecha", FormatDate(nil, "sin fecha"))
}

func TestClampDecimal(t *testing.T) {
	min := decimal.NewFromInt(5)
	max := decimal.NewFromInt(50)

	assert.True(t, ClampDecimal(decimal.NewFromInt(3), min, max).Equal(min))
	assert.True(t, ClampDecimal(decimal.NewFromInt(100), min, max).Equal(max))
	assert.True(t, ClampDecimal(decimal.NewFromInt(20), min, max).Equal(decimal.NewFromInt(20)))
}
