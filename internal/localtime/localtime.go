// Package localtime derives calendar dates and wall-clock windows in a named timezone.
// All checks read the zone's own calendar fields; none of them add a fixed UTC offset.
package localtime

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used for dedup keys
const DateLayout = "2006-01-02"

// maxOffsetIterations bounds the fixed-point search in MidnightUTC.
// Offsets take a handful of discrete values, so it converges or alternates within a few steps.
const maxOffsetIterations = 6

// Date is a calendar day in some timezone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of instant t as observed in loc
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// MidnightUTC returns the instant at which day d begins in loc.
//
// It starts from the day's midnight read as UTC, then repeatedly shifts by the zone offset
// in effect at the current guess until the guess stops moving. In zones whose clocks jump
// forward at midnight the guesses alternate between the last instant of the previous day
// and the first instant of d; the later one is the start of d.
func MidnightUTC(d Date, loc *time.Location) time.Time {
	naive := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	guess := naive
	var prev time.Time
	for i := 0; i < maxOffsetIterations; i++ {
		_, offset := guess.In(loc).Zone()
		next := naive.Add(-time.Duration(offset) * time.Second)
		if next.Equal(guess) {
			break
		}
		if next.Equal(prev) {
			if next.After(guess) {
				guess = next
			}
			break
		}
		prev, guess = guess, next
	}
	return guess
}

// Window is a daily wall-clock interval [Start, Start+Length) in a timezone
type Window struct {
	Hour     int
	Minute   int
	Length   time.Duration
	Location *time.Location
}

// Contains reports whether t falls inside the window on its local calendar day
func (w Window) Contains(t time.Time) bool {
	local := t.In(w.Location)
	hh, mm, ss := local.Clock()
	sinceMidnight := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second +
		time.Duration(local.Nanosecond())
	start := time.Duration(w.Hour)*time.Hour + time.Duration(w.Minute)*time.Minute
	return sinceMidnight >= start && sinceMidnight < start+w.Length
}

// String renders the window as "HH:MM-HH:MM Zone"
func (w Window) String() string {
	start := time.Duration(w.Hour)*time.Hour + time.Duration(w.Minute)*time.Minute
	end := start + w.Length - time.Minute
	return fmt.Sprintf("%02d:%02d-%02d:%02d %s",
		w.Hour, w.Minute, int(end/time.Hour), int(end%time.Hour/time.Minute), w.Location)
}
