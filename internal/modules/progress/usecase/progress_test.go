package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

type fakeLog struct {
	entries []domain.LogEntry
	err     error
}

func (l *fakeLog) Append(_ context.Context, entry domain.LogEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	return nil
}

type fakeStats struct {
	stats      domain.Stats
	fetchErr   error
	fetchCalls int
	resets     []bool
}

func (s *fakeStats) Fetch(_ context.Context) (domain.Stats, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return domain.Stats{}, s.fetchErr
	}
	return s.stats, nil
}

func (s *fakeStats) ResetHistory(_ context.Context, resetXP bool) error {
	s.resets = append(s.resets, resetXP)
	return nil
}

func TestSubmitLogValidates(t *testing.T) {
	t.Parallel()
	log := &fakeLog{}
	uc := NewInteractor(log, &fakeStats{})

	if err := uc.SubmitLog(context.Background(), dto.LogInput{Topic: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank topic: got %v", err)
	}
	if err := uc.SubmitLog(context.Background(), dto.LogInput{Topic: "Algebra", Minutes: -5}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("negative minutes: got %v", err)
	}
	if len(log.entries) != 0 {
		t.Fatal("invalid input reached the log")
	}

	if err := uc.SubmitLog(context.Background(), dto.LogInput{Topic: "Algebra", Minutes: 25, XP: 50}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(log.entries) != 1 || log.entries[0].XPEarned != 50 {
		t.Fatalf("entries = %+v", log.entries)
	}
}

func TestRefreshMapsLevels(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{stats: domain.Stats{
		TotalXP: 1250,
		History: []domain.LogEntry{{Topic: "Algebra", DurationMinutes: 25, XPEarned: 50}},
	}}
	uc := NewInteractor(&fakeLog{}, stats)

	out, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.TotalXP != 1250 || out.Level != 3 || out.LevelProgress != 250 || out.LevelStep != domain.LevelStep {
		t.Fatalf("stats = %+v", out)
	}
	if len(out.History) != 1 || out.History[0].Topic != "Algebra" {
		t.Fatalf("history = %+v", out.History)
	}
}

func TestSyncRefreshesEvenWhenTheLogWriteFails(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{stats: domain.Stats{TotalXP: 300}}
	uc := NewInteractor(&fakeLog{err: errors.New("write refused")}, stats)

	out, err := uc.Sync(context.Background(), dto.LogInput{Topic: "Algebra", Minutes: 25, XP: 50})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !out.LogDropped {
		t.Fatal("dropped log not reported")
	}
	if stats.fetchCalls != 1 {
		t.Fatalf("refresh calls = %d, want the unconditional re-read", stats.fetchCalls)
	}
	if out.Stats.TotalXP != 300 {
		t.Fatalf("stats = %+v", out.Stats)
	}
}

func TestSyncPropagatesRefreshFailure(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{fetchErr: apperrors.ErrAuthExpired}
	log := &fakeLog{}
	uc := NewInteractor(log, stats)

	_, err := uc.Sync(context.Background(), dto.LogInput{Topic: "Algebra", Minutes: 25, XP: 50})
	if !errors.Is(err, apperrors.ErrAuthExpired) {
		t.Fatalf("got %v, want ErrAuthExpired", err)
	}
	if len(log.entries) != 1 {
		t.Fatal("log write should have happened before the failed refresh")
	}
}

func TestResetHistoryForwardsTheXPFlag(t *testing.T) {
	t.Parallel()
	stats := &fakeStats{}
	uc := NewInteractor(&fakeLog{}, stats)

	if err := uc.ResetHistory(context.Background(), true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := uc.ResetHistory(context.Background(), false); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(stats.resets) != 2 || !stats.resets[0] || stats.resets[1] {
		t.Fatalf("resets = %v", stats.resets)
	}
}
