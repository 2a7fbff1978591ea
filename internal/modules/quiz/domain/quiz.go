package domain

import (
	"fmt"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

const (
	// XPPerCorrect prices the final score.
	XPPerCorrect = 20

	// LogTopic and LogMinutes are how a finished quiz appears in the
	// session history, whatever its actual length was.
	LogTopic   = "Quiz Completed"
	LogMinutes = 5
)

type Question struct {
	Prompt  string
	Options []string
	Answer  string
}

type Phase int

const (
	PhaseUnanswered Phase = iota
	PhaseAnswered
	PhaseComplete
)

// Session walks a fixed question list. The first pick on each question
// is the one that counts; scoring compares the option text exactly,
// case included.
type Session struct {
	Topic     string
	Questions []Question
	Index     int
	Score     int
	Selected  string
	Phase     Phase
}

func NewSession(topic string, questions []Question) (Session, error) {
	if len(questions) == 0 {
		return Session{}, apperrors.ErrEmptyQuiz
	}
	return Session{Topic: topic, Questions: questions}, nil
}

func (s Session) Current() Question {
	return s.Questions[s.Index]
}

type AnswerResult struct {
	Accepted bool
	Correct  bool
}

// Answer locks in the first pick; later picks on the same question are
// refused and report how the locked pick scored.
func (s *Session) Answer(option string) AnswerResult {
	if s.Phase != PhaseUnanswered {
		return AnswerResult{Accepted: false, Correct: s.Selected == s.Current().Answer}
	}
	s.Selected = option
	s.Phase = PhaseAnswered
	correct := option == s.Current().Answer
	if correct {
		s.Score++
	}
	return AnswerResult{Accepted: true, Correct: correct}
}

// Advance reports where Next landed. XPGained is only priced on the
// completing step.
type Advance struct {
	Done     bool
	XPGained int
}

// Next moves to the following question, or completes the session off
// the last one. Advancing an unanswered question is refused; calling
// Next on a completed session just re-reports the result.
func (s *Session) Next() (Advance, error) {
	switch s.Phase {
	case PhaseUnanswered:
		return Advance{}, fmt.Errorf("%w: answer before moving on", apperrors.ErrInvalidInput)
	case PhaseComplete:
		return Advance{Done: true, XPGained: s.Score * XPPerCorrect}, nil
	}
	if s.Index+1 < len(s.Questions) {
		s.Index++
		s.Selected = ""
		s.Phase = PhaseUnanswered
		return Advance{}, nil
	}
	s.Phase = PhaseComplete
	return Advance{Done: true, XPGained: s.Score * XPPerCorrect}, nil
}
