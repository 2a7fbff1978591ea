package dto

type CompletionInput struct {
	Task           string
	PlannedMinutes int
}

// CompletionOutput carries the refreshed totals after an award lands.
// LogDropped means the award write failed; the totals are still the
// server's word.
type CompletionOutput struct {
	TotalXP       int
	Level         int
	LevelProgress int
	LevelStep     int
	LogDropped    bool
}
