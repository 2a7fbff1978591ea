package domain

import (
	"errors"
	"testing"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

func TestStartValidates(t *testing.T) {
	t.Parallel()

	if _, err := Start("  ", 25); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank task: got %v", err)
	}
	if _, err := Start("Algebra", 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero minutes: got %v", err)
	}

	s, err := Start("Algebra", 30)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State != StateRunning || s.RemainingSeconds != 1800 || s.PlannedMinutes != 30 {
		t.Fatalf("session = %+v", s)
	}
}

func TestTickRunsDownAndAwardsOnce(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 30)
	var award Completion
	awards := 0
	for i := 0; i < 1800; i++ {
		if c, done := s.Tick(); done {
			award = c
			awards++
		}
	}
	if awards != 1 {
		t.Fatalf("awards = %d, want exactly one", awards)
	}
	if s.State != StateExpired || s.RemainingSeconds != 0 {
		t.Fatalf("session = %+v", s)
	}
	if award.Task != "Algebra" || award.PlannedMinutes != 30 || award.XP != CompleteXP {
		t.Fatalf("award = %+v", award)
	}

	// Stray ticks after expiry change nothing.
	if _, done := s.Tick(); done {
		t.Fatal("expired session awarded again")
	}
	if s.RemainingSeconds != 0 {
		t.Fatalf("remaining drifted to %d", s.RemainingSeconds)
	}
}

func TestAdjustRefusesTheFloor(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 10)
	if err := s.Adjust(-20); !errors.Is(err, apperrors.ErrAdjustBelowFloor) {
		t.Fatalf("deep cut: got %v", err)
	}
	if err := s.Adjust(-5); !errors.Is(err, apperrors.ErrAdjustBelowFloor) {
		t.Fatalf("cut to the floor itself: got %v", err)
	}
	if s.DurationMinutes != 10 || s.RemainingSeconds != 600 {
		t.Fatalf("refused adjust still changed state: %+v", s)
	}
}

func TestAdjustRestartsTheCountdown(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 10)
	for i := 0; i < 300; i++ {
		s.Tick()
	}
	if err := s.Adjust(5); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if s.DurationMinutes != 15 || s.RemainingSeconds != 900 {
		t.Fatalf("session = %+v, want a fresh 15 minutes", s)
	}
	if s.PlannedMinutes != 10 {
		t.Fatalf("planned minutes drifted to %d", s.PlannedMinutes)
	}
}

func TestAdjustedSessionStillAwardsOriginalPlan(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 10)
	if err := s.Adjust(10); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	var award Completion
	for i := 0; i < 20*60; i++ {
		if c, done := s.Tick(); done {
			award = c
		}
	}
	if award.PlannedMinutes != 10 {
		t.Fatalf("award cites %d minutes, want the original 10", award.PlannedMinutes)
	}
}

func TestExitAbandonsWithoutAward(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 10)
	if err := s.Exit(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if s.State != StateIdle || s.RemainingSeconds != 0 {
		t.Fatalf("session = %+v", s)
	}
	if _, done := s.Tick(); done {
		t.Fatal("exited session produced an award")
	}
	if err := s.Adjust(5); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("adjust after exit: got %v", err)
	}
	if err := s.Exit(); !errors.Is(err, apperrors.ErrNotRunning) {
		t.Fatalf("double exit: got %v", err)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	s, _ := Start("Algebra", 25)
	if got := s.Clock(); got != "25:00" {
		t.Fatalf("clock = %q", got)
	}
	s.Tick()
	if got := s.Clock(); got != "24:59" {
		t.Fatalf("clock = %q", got)
	}
}
