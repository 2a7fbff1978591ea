package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
)

type Usecase interface {
	SubmitLog(ctx context.Context, input dto.LogInput) error
	Refresh(ctx context.Context) (dto.StatsOutput, error)
	Sync(ctx context.Context, input dto.LogInput) (dto.SyncOutput, error)
	ResetHistory(ctx context.Context, resetXP bool) error
}
