package amortization

import "time"

// PaymentDate returns the calendar date of the given 1-based period.
func PaymentDate(start time.Time, f Frequency, period int) time.Time {
	k := period - 1
	switch f {
	case BiWeekly:
		return start.AddDate(0, 0, 14*k)
	case Weekly:
		return start.AddDate(0, 0, 7*k)
	default:
		return AddMonths(start, k)
	}
}

// AddMonths advances t by n calendar months, clamping the day to the last
// day of the target month. Jan 31 + 1 month is Feb 28 (or 29), not Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
