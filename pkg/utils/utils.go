package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKey returns the local calendar day of t as a YYYY-MM-DD string.
// All "same day" comparisons in the engine go through day keys so that
// time-of-day never influences the result.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfISOWeek returns local midnight of the Monday of t's ISO week.
// Sunday maps to the Monday six days earlier.
func StartOfISOWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	offset := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	return d.AddDate(0, 0, offset)
}

// WholeMonthsBetween counts fully elapsed calendar months from "from" to "to".
// A month only counts once the day-of-month has been reached, so a debt issued
// on the 15th completes its first month on the 15th of the next month.
// Never negative.
func WholeMonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// DaysUntil counts calendar days from "from" to "to". The distance is taken
// between the calendar dates themselves, not wall-clock durations, so DST
// transition days (23 or 25 hours long) never shift it. Negative when "to" is
// in the past.
func DaysUntil(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Round2 rounds a money value to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders a money value as $X.XX for message bodies.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatDate renders a date as YYYY-MM-DD, or the given fallback when nil.
func FormatDate(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return DayKey(*t)
}

// ClampDecimal bounds d to [min, max].
func ClampDecimal(d, min, max decimal.Decimal) decimal.Decimal {
	if d.LessThan(min) {
		return min
	}
	if d.GreaterThan(max) {
		return max
	}
	return d
}
