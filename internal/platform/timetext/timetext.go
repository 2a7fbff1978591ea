// Package timetext parses the "HH:MM - HH:MM" ranges that schedule items
// carry on the wire and turns them into minute-of-day math.
package timetext

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FallbackMinutes is what a slot is worth when its range cannot be
	// parsed. Matches the default pomodoro block the planner emits.
	FallbackMinutes = 25

	MinutesPerDay = 24 * 60
)

// Range is a half-open [Start, End) slot in minutes since midnight.
// End may be numerically smaller than Start when the slot runs past
// midnight; Duration accounts for the wrap, Contains does not match
// wrapped slots because the calendar date has moved on by then.
type Range struct {
	Start int
	End   int
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock %q: want HH:MM", text)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", text, err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", text, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock %q: out of range", text)
	}
	return hour*60 + minute, nil
}

// ParseRange parses "HH:MM - HH:MM". Any shape or clock violation is an
// error; callers treat errored items as unmatched and fall back on
// FallbackMinutes for their length.
func ParseRange(text string) (Range, error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q: want HH:MM - HH:MM", text)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return Range{}, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Contains reports whether the minute-of-day falls inside the slot,
// start inclusive, end exclusive.
func (r Range) Contains(minute int) bool {
	return r.Start <= minute && minute < r.End
}

// Duration returns the slot length in minutes. Slots that end at or
// before their start are read as crossing midnight and wrap by a day.
func (r Range) Duration() int {
	d := r.End - r.Start
	if d <= 0 {
		d += MinutesPerDay
	}
	if d <= 0 {
		return FallbackMinutes
	}
	return d
}

// DurationOrFallback is Duration for parseable text and FallbackMinutes
// for everything else.
func DurationOrFallback(text string) int {
	r, err := ParseRange(text)
	if err != nil {
		return FallbackMinutes
	}
	return r.Duration()
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	minute %= MinutesPerDay
	if minute < 0 {
		minute += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// FormatRange renders a Range the way the wire writes it.
func FormatRange(r Range) string {
	return fmt.Sprintf("%s - %s", FormatClock(r.Start), FormatClock(r.End))
}
