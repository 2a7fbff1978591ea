package dto

import "time"

type LogInput struct {
	Topic   string
	Minutes int
	XP      int
}

type HistoryEntry struct {
	Topic     string
	Minutes   int
	XP        int
	Timestamp time.Time
}

type StatsOutput struct {
	TotalXP       int
	Level         int
	LevelProgress int
	LevelStep     int
	History       []HistoryEntry
}

// SyncOutput is a submit-then-refresh round trip. LogDropped means the
// log write failed and only the refresh carried; totals are still
// authoritative, the history row is missing.
type SyncOutput struct {
	Stats      StatsOutput
	LogDropped bool
}
