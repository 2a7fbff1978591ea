package dto

type GenerateInput struct {
	Topics []string
	Hours  int
	Energy string
	Start  string // HH:MM, empty means now
	Date   string // YYYY-MM-DD, empty means today
}

type ItemOutput struct {
	ID          int64
	Time        string
	Task        string
	Type        string
	Reason      string
	KeyConcepts []string
	Resources   []string
	DurationMin int
	IsBreak     bool
	Completed   bool
}

type ScheduleOutput struct {
	Date  string
	Tip   string
	Items []ItemOutput
}

type SaveDayInput struct {
	Date  string
	Items []SaveItemInput
}

type SaveItemInput struct {
	Time        string
	Task        string
	Type        string
	Reason      string
	KeyConcepts []string
	Resources   []string
}

// SaveDayOutput reports how the batch went. Reconciled is false when
// the follow-up listing could not attach calendar row ids, which keeps
// later edits local-only until the day is reloaded.
type SaveDayOutput struct {
	Schedule   ScheduleOutput
	Created    int
	Reconciled bool
}

type UpdateTaskInput struct {
	ID   int64
	Task string
	Time string
}

type AnalyzeInput struct {
	Filename string
	Content  []byte
}

type AnalyzeOutput struct {
	Topics []string
}
