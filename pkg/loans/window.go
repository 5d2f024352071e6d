package loans

import "time"

// BoundarySlack is the nominal block interval of the chain. A timestamp within this distance of a
// day or hour boundary is treated as sitting on that boundary.
const BoundarySlack = 12 * time.Second

// Unit is a calendar unit for differences and truncation. All units are evaluated in UTC.
type Unit int

const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Months
)

func (u Unit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	case Months:
		return "months"
	default:
		return "unknown"
	}
}

// Diff returns the whole number of units between t and now, truncated toward zero.
// Months are calendar months with the day clamped to month end: Jan 15 to Feb 14 is zero months,
// Jan 31 to Feb 28 is one.
func Diff(now, t time.Time, unit Unit) int64 {
	now, t = now.UTC(), t.UTC()
	d := now.Sub(t)
	switch unit {
	case Seconds:
		return int64(d / time.Second)
	case Minutes:
		return int64(d / time.Minute)
	case Hours:
		return int64(d / time.Hour)
	case Days:
		return int64(d / (24 * time.Hour))
	case Months:
		return monthDiff(now, t)
	default:
		return 0
	}
}

func monthDiff(now, t time.Time) int64 {
	if now.Before(t) {
		return -monthDiff(t, now)
	}
	months := int64(now.Year()-t.Year())*12 + int64(now.Month()-t.Month())
	if months > 0 && addMonths(t, months).After(now) {
		months--
	}
	return months
}

// addMonths adds n calendar months to t, clamping the day to the last day of the target month.
func addMonths(t time.Time, n int64) time.Time {
	y, m, d := t.Date()
	total := int64(m-1) + n
	ty := y + int(total/12)
	tm := time.Month(total%12 + 1)
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOf truncates t to the beginning of its containing unit in UTC.
func StartOf(t time.Time, unit Unit) time.Time {
	t = t.UTC()
	switch unit {
	case Seconds:
		return t.Truncate(time.Second)
	case Minutes:
		return t.Truncate(time.Minute)
	case Hours:
		return t.Truncate(time.Hour)
	case Days:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Months:
		y, m, _ := t.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}

// EndOf returns the last representable instant of the unit containing t.
func EndOf(t time.Time, unit Unit) time.Time {
	start := StartOf(t, unit)
	var next time.Time
	switch unit {
	case Seconds:
		next = start.Add(time.Second)
	case Minutes:
		next = start.Add(time.Minute)
	case Hours:
		next = start.Add(time.Hour)
	case Days:
		next = start.AddDate(0, 0, 1)
	case Months:
		next = start.AddDate(0, 1, 0)
	default:
		return start
	}
	return next.Add(-time.Nanosecond)
}

// IsNearEndOfDay reports whether t is within BoundarySlack of the end of its UTC day.
// The distance is counted in whole seconds.
func IsNearEndOfDay(t time.Time) bool {
	return EndOf(t, Days).Sub(t.UTC()).Truncate(time.Second) <= BoundarySlack
}

// IsNearStartOf reports whether t is within BoundarySlack after the start of its unit,
// counted in whole seconds.
func IsNearStartOf(t time.Time, unit Unit) bool {
	return t.UTC().Sub(StartOf(t, unit)).Truncate(time.Second) <= BoundarySlack
}

// IsNearHourMultiple reports whether t sits within BoundarySlack after an hour boundary whose
// offset in hours from the start of the current UTC day (taken from now) is a multiple of every.
// every <= 1 accepts any hour boundary.
func IsNearHourMultiple(now, t time.Time, every int) bool {
	if !IsNearStartOf(t, Hours) {
		return false
	}
	if every <= 1 {
		return true
	}
	hours := int64(StartOf(t, Hours).Sub(StartOf(now, Days)) / time.Hour)
	return hours%int64(every) == 0
}
