package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jibinz12/cerebra-app/internal/platform/timetext"
)

const DateFormat = "2006-01-02"

// TypeBreak marks rest slots; they render dimmed and focus shortcuts
// skip them.
const TypeBreak = "Break"

// RestoredTip replaces the coaching tip when a day is rebuilt from the
// calendar instead of freshly generated.
const RestoredTip = "Loaded from your calendar. Generate a new plan for fresh coaching."

// Item is one slot of the day plan. Span holds the parsed time range;
// SpanOK is false for slots whose range text could not be read, which
// keeps them visible but never live.
type Item struct {
	RemoteID    int64 // calendar row id, zero until the day reconciles
	TimeText    string
	Span        timetext.Range
	SpanOK      bool
	Task        string
	Type        string
	Reason      string
	KeyConcepts []string
	Resources   []string
}

// NewItem parses the range text once so matching and duration reads
// stay allocation-free afterwards.
func NewItem(timeText, task, typ, reason string, concepts, resources []string) Item {
	span, err := timetext.ParseRange(timeText)
	return Item{
		TimeText:    timeText,
		Span:        span,
		SpanOK:      err == nil,
		Task:        task,
		Type:        typ,
		Reason:      reason,
		KeyConcepts: concepts,
		Resources:   resources,
	}
}

func (it Item) IsBreak() bool {
	return strings.EqualFold(strings.TrimSpace(it.Type), TypeBreak)
}

// DurationMinutes is the slot length, or the standard fallback block
// when the range text never parsed.
func (it Item) DurationMinutes() int {
	if !it.SpanOK {
		return timetext.FallbackMinutes
	}
	return it.Span.Duration()
}

// ParsedResources maps the raw resource strings.
func (it Item) ParsedResources() []Resource {
	out := make([]Resource, 0, len(it.Resources))
	for _, raw := range it.Resources {
		out = append(out, ParseResource(raw))
	}
	return out
}

// Schedule is one day's plan. Items are identified by index; RemoteID
// only ties an item back to its calendar row.
type Schedule struct {
	Date  string // DateFormat
	Tip   string
	Items []Item
}

// LiveIndex returns the slot covering now. The scheduled date must be
// today; within it the latest matching slot wins when ranges overlap,
// and malformed ranges never match.
func (s Schedule) LiveIndex(now time.Time) (int, bool) {
	if s.Date != now.Format(DateFormat) {
		return 0, false
	}
	minute := now.Hour()*60 + now.Minute()
	idx, ok := 0, false
	for i, item := range s.Items {
		if item.SpanOK && item.Span.Contains(minute) {
			idx, ok = i, true
		}
	}
	return idx, ok
}

// EditItem rewrites a slot's task and time in place, reparsing the
// range. The calendar row id survives the edit.
func (s *Schedule) EditItem(index int, task, timeText string) error {
	if index < 0 || index >= len(s.Items) {
		return fmt.Errorf("edit item %d: index out of range", index)
	}
	prev := s.Items[index]
	item := NewItem(timeText, task, prev.Type, prev.Reason, prev.KeyConcepts, prev.Resources)
	item.RemoteID = prev.RemoteID
	s.Items[index] = item
	return nil
}

// RemoveItem drops a slot; later indices shift down, which is why the
// completion ledger resets alongside structural changes.
func (s *Schedule) RemoveItem(index int) error {
	if index < 0 || index >= len(s.Items) {
		return fmt.Errorf("remove item %d: index out of range", index)
	}
	s.Items = append(s.Items[:index], s.Items[index+1:]...)
	return nil
}

// PlanRequest is what the remote planner needs to draft a day.
type PlanRequest struct {
	Energy      string
	Hours       int
	Subjects    []string
	CurrentTime string // HH:MM
	Date        string // DateFormat
}

// CalendarTask is the persisted form of a slot.
type CalendarTask struct {
	ID          int64
	Date        string
	Time        string
	Task        string
	Type        string
	Reason      string
	KeyConcepts []string
	Resources   []string
	Completed   bool
}

// TaskUpdate rewrites a calendar row's task and time. The service takes
// both fields whole, so callers pass the current value for whichever
// one they are not changing.
type TaskUpdate struct {
	Task string
	Time string
}
