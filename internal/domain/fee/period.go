package fee

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and in remarks
const DateLayout = "2006-01-02"

// MonthLayout is the bill month format (YYYY-MM)
const MonthLayout = "2006-01"

// MonthsBetween returns the number of whole elapsed months from start to end.
// A trailing partial month is not counted and the result is never negative.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// DateOf truncates t to a UTC calendar date
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthPeriod returns the first and last calendar day of a YYYY-MM bill month
func MonthPeriod(billMonth string) (time.Time, time.Time, error) {
	first, err := time.Parse(MonthLayout, billMonth)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid bill month %q, expected YYYY-MM", billMonth)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}
