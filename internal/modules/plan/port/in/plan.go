package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
)

type Usecase interface {
	Generate(ctx context.Context, input dto.GenerateInput) (dto.ScheduleOutput, error)
	SaveDay(ctx context.Context, input dto.SaveDayInput) (dto.SaveDayOutput, error)
	LoadDay(ctx context.Context, date string) (dto.ScheduleOutput, error)
	UpdateTask(ctx context.Context, input dto.UpdateTaskInput) error
	DeleteTask(ctx context.Context, id int64) error
	ClearDay(ctx context.Context, date string) error
	AnalyzeSyllabus(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error)
}
