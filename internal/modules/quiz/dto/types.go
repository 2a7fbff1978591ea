package dto

type QuestionOutput struct {
	Prompt  string
	Options []string
	Answer  string
}

type QuizOutput struct {
	Topic     string
	Questions []QuestionOutput
}

type FinishInput struct {
	Topic    string
	XPGained int
}

// FinishOutput: Refreshed is false for zero-score quizzes, which log
// nothing and leave the stats fields zero.
type FinishOutput struct {
	XPGained      int
	Refreshed     bool
	TotalXP       int
	Level         int
	LevelProgress int
	LevelStep     int
	LogDropped    bool
}
