package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoTopics          = errors.New("at least one topic is required")
	ErrEmptyQuiz         = errors.New("quiz came back with no questions")
	ErrNotRunning        = errors.New("no focus session is running")
	ErrAdjustBelowFloor  = errors.New("focus session cannot drop below five minutes")
	ErrAuthExpired       = errors.New("session expired, sign in again")
	ErrRemoteUnavailable = errors.New("study service unavailable")
	ErrGenerationFailed  = errors.New("plan generation failed")
)
