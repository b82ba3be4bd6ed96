package domain

import (
	"encoding/json"
	"time"
)

// DayLayout is the wire format of a calendar day.
const DayLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day is a calendar date counted in days since 1970-01-01. It is comparable and usable as a map key.
type Day int32

// NewDay builds a Day from a civil date. Out-of-range months and days are normalized like time.Date.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// DayOf returns the calendar day of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return NewDay(t.In(loc).Date())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return 0, WrapError(ErrCodeInvalid, ErrInvalidDay.Message, err)
	}
	return NewDay(t.Date()), nil
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Day) String() string {
	return d.Time().Format(DayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrCodeInvalid, ErrInvalidDay.Message, err)
	}
	parsed, err := ParseDay(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock resolves "now" and "today" against the configured day boundary.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// WithNow returns a copy of the clock reading time from now.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

func (c *Clock) Now() time.Time {
	return c.now()
}

func (c *Clock) Today() Day {
	return DayOf(c.now(), c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}
