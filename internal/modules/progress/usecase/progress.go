package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	progressin "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/in"
	progressout "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/out"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

type Interactor struct {
	log   progressout.SessionLog
	stats progressout.Stats
}

func NewInteractor(log progressout.SessionLog, stats progressout.Stats) progressin.Usecase {
	return &Interactor{log: log, stats: stats}
}

func (i *Interactor) SubmitLog(ctx context.Context, input dto.LogInput) error {
	if strings.TrimSpace(input.Topic) == "" {
		return fmt.Errorf("%w: log topic required", apperrors.ErrInvalidInput)
	}
	if input.Minutes < 0 {
		return fmt.Errorf("%w: negative duration", apperrors.ErrInvalidInput)
	}
	return i.log.Append(ctx, domain.LogEntry{
		Topic:           input.Topic,
		DurationMinutes: input.Minutes,
		XPEarned:        input.XP,
	})
}

func (i *Interactor) Refresh(ctx context.Context) (dto.StatsOutput, error) {
	stats, err := i.stats.Fetch(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStatsOutput(stats), nil
}

// Sync is the standard write path: append the record, then re-read
// totals no matter how the append went. The experience numbers always
// end up authoritative; a dropped log only costs a history row.
func (i *Interactor) Sync(ctx context.Context, input dto.LogInput) (dto.SyncOutput, error) {
	logErr := i.SubmitLog(ctx, input)
	stats, err := i.Refresh(ctx)
	if err != nil {
		return dto.SyncOutput{LogDropped: logErr != nil}, err
	}
	return dto.SyncOutput{Stats: stats, LogDropped: logErr != nil}, nil
}

func (i *Interactor) ResetHistory(ctx context.Context, resetXP bool) error {
	return i.stats.ResetHistory(ctx, resetXP)
}

func toStatsOutput(stats domain.Stats) dto.StatsOutput {
	exp := domain.Experience{TotalXP: stats.TotalXP}
	out := dto.StatsOutput{
		TotalXP:       stats.TotalXP,
		Level:         exp.Level(),
		LevelProgress: exp.LevelProgress(),
		LevelStep:     domain.LevelStep,
		History:       make([]dto.HistoryEntry, 0, len(stats.History)),
	}
	for _, entry := range stats.History {
		out.History = append(out.History, dto.HistoryEntry{
			Topic:     entry.Topic,
			Minutes:   entry.DurationMinutes,
			XP:        entry.XPEarned,
			Timestamp: entry.Timestamp,
		})
	}
	return out
}
