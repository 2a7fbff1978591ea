package usecase

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/focus/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/focus/dto"
	focusin "github.com/Jibinz12/cerebra-app/internal/modules/focus/port/in"
	progressdto "github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	progressin "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/in"
)

type Interactor struct {
	progress progressin.Usecase
}

func NewInteractor(progress progressin.Usecase) focusin.Usecase {
	return &Interactor{progress: progress}
}

// Complete books a finished session: the flat focus award against the
// originally planned minutes, then the usual refresh.
func (i *Interactor) Complete(ctx context.Context, input dto.CompletionInput) (dto.CompletionOutput, error) {
	sync, err := i.progress.Sync(ctx, progressdto.LogInput{
		Topic:   input.Task,
		Minutes: input.PlannedMinutes,
		XP:      domain.CompleteXP,
	})
	if err != nil {
		return dto.CompletionOutput{LogDropped: sync.LogDropped}, err
	}
	return dto.CompletionOutput{
		TotalXP:       sync.Stats.TotalXP,
		Level:         sync.Stats.Level,
		LevelProgress: sync.Stats.LevelProgress,
		LevelStep:     sync.Stats.LevelStep,
		LogDropped:    sync.LogDropped,
	}, nil
}
