package domain

import "time"

// Experience is the client's mirror of the server XP total. Optimistic
// deltas keep the header lively between refreshes; the next Fetch
// overwrites whatever this drifted to.
type Experience struct {
	TotalXP int
}

func (e Experience) Level() int {
	return e.TotalXP/LevelStep + 1
}

// LevelProgress is the XP earned into the current level.
func (e Experience) LevelProgress() int {
	return e.TotalXP % LevelStep
}

// ApplyDelta shifts the total, clamped at zero the same way the
// server clamps its ledger.
func (e Experience) ApplyDelta(delta int) Experience {
	total := e.TotalXP + delta
	if total < 0 {
		total = 0
	}
	return Experience{TotalXP: total}
}

// LogEntry is one history row.
type LogEntry struct {
	ID              int64
	Topic           string
	DurationMinutes int
	XPEarned        int
	Timestamp       time.Time
}

// Stats is the authoritative server snapshot.
type Stats struct {
	TotalXP int
	History []LogEntry
}
