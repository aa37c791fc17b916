// Package dayclock converts instants to local calendar days. Every bucket is
// computed in an explicit location so a 23:30 local log never drifts into the
// next UTC day.
package dayclock

import "time"

// DateLayout is the local date key format, e.g. "2026-10-19".
const DateLayout = "2006-01-02"

// Clock pins day arithmetic to one location and one source of "now".
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

// Local returns a Clock in the process local zone using the wall clock.
func Local() Clock {
	return Clock{Loc: time.Local, Now: time.Now}
}

// In returns a Clock in loc using the wall clock. A nil loc means time.Local.
func In(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Loc: loc, Now: time.Now}
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// Today returns the current instant expressed in the clock's location.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// DateKey formats t as the local calendar date it falls on.
func (c Clock) DateKey(t time.Time) string {
	return t.In(c.location()).Format(DateLayout)
}

// StartOfDay returns local midnight of t's calendar day.
func (c Clock) StartOfDay(t time.Time) time.Time {
	l := t.In(c.location())
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
}

// EndOfDay returns local 23:59:59.999 of t's calendar day, the inclusive upper
// bound used for bucketing millisecond timestamps.
func (c Clock) EndOfDay(t time.Time) time.Time {
	l := t.In(c.location())
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, int(999*time.Millisecond), l.Location())
}

// DaysAgo steps n calendar days back from t. It moves by calendar date rather
// than by 24h so DST transitions never skip or repeat a day.
func (c Clock) DaysAgo(t time.Time, n int) time.Time {
	l := t.In(c.location())
	return time.Date(l.Year(), l.Month(), l.Day()-n, 12, 0, 0, 0, l.Location())
}

// LocalDateKey formats t as a date in the process local zone.
func LocalDateKey(t time.Time) string { return Local().DateKey(t) }

// StartOfLocalDay returns local midnight of t's day in the process local zone.
func StartOfLocalDay(t time.Time) time.Time { return Local().StartOfDay(t) }

// EndOfLocalDay returns local 23:59:59.999 of t's day in the process local zone.
func EndOfLocalDay(t time.Time) time.Time { return Local().EndOfDay(t) }

// FromMillis converts an epoch-millisecond timestamp to a time.Time.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms) }
