package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	progressin "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Log(ctx context.Context, topic string, minutes, xp int) (dto.SyncOutput, error) {
	return h.usecase.Sync(ctx, dto.LogInput{Topic: topic, Minutes: minutes, XP: xp})
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) ResetHistory(ctx context.Context, resetXP bool) error {
	return h.usecase.ResetHistory(ctx, resetXP)
}
