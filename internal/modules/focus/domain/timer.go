package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

const (
	// CompleteXP is the flat award for riding a session to zero.
	CompleteXP = 100

	// FloorMinutes is the shortest a session may be adjusted to,
	// exclusive: a result at or under the floor is refused.
	FloorMinutes = 5
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateExpired
)

// Session is one focus countdown. PlannedMinutes is what the slot was
// worth when the session started; adjustments stretch or shrink the
// countdown but the eventual award always cites the original plan.
type Session struct {
	Task             string
	PlannedMinutes   int
	DurationMinutes  int
	RemainingSeconds int
	State            State
}

func Start(task string, minutes int) (Session, error) {
	if strings.TrimSpace(task) == "" {
		return Session{}, fmt.Errorf("%w: focus task required", apperrors.ErrInvalidInput)
	}
	if minutes <= 0 {
		return Session{}, fmt.Errorf("%w: focus minutes must be positive", apperrors.ErrInvalidInput)
	}
	return Session{
		Task:             task,
		PlannedMinutes:   minutes,
		DurationMinutes:  minutes,
		RemainingSeconds: minutes * 60,
		State:            StateRunning,
	}, nil
}

// Completion is the award an expired session hands out, exactly once.
type Completion struct {
	Task           string
	PlannedMinutes int
	XP             int
}

// Tick burns one second. Crossing zero flips the session to Expired
// and returns its completion; ticks on anything but a running session
// do nothing, so late or duplicate ticks cannot double-award.
func (s *Session) Tick() (Completion, bool) {
	if s.State != StateRunning {
		return Completion{}, false
	}
	s.RemainingSeconds--
	if s.RemainingSeconds > 0 {
		return Completion{}, false
	}
	s.RemainingSeconds = 0
	s.State = StateExpired
	return Completion{Task: s.Task, PlannedMinutes: s.PlannedMinutes, XP: CompleteXP}, true
}

// Adjust adds delta minutes and restarts the countdown from the new
// length, elapsed time forgiven.
func (s *Session) Adjust(delta int) error {
	if s.State != StateRunning {
		return apperrors.ErrNotRunning
	}
	next := s.DurationMinutes + delta
	if next <= FloorMinutes {
		return apperrors.ErrAdjustBelowFloor
	}
	s.DurationMinutes = next
	s.RemainingSeconds = next * 60
	return nil
}

// Exit abandons the countdown. No award.
func (s *Session) Exit() error {
	if s.State != StateRunning {
		return apperrors.ErrNotRunning
	}
	s.State = StateIdle
	s.RemainingSeconds = 0
	return nil
}

// Clock renders the remaining time as MM:SS; long sessions just show
// large minute counts.
func (s Session) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.RemainingSeconds/60, s.RemainingSeconds%60)
}
