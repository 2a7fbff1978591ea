package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
	planin "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/in"
)

type CLIHandler struct {
	usecase planin.Usecase
}

func NewCLIHandler(usecase planin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context, topics []string, hours int, energy, start, date string) (dto.ScheduleOutput, error) {
	return h.usecase.Generate(ctx, dto.GenerateInput{Topics: topics, Hours: hours, Energy: energy, Start: start, Date: date})
}

func (h CLIHandler) SaveDay(ctx context.Context, schedule dto.ScheduleOutput) (dto.SaveDayOutput, error) {
	input := dto.SaveDayInput{Date: schedule.Date, Items: make([]dto.SaveItemInput, 0, len(schedule.Items))}
	for _, item := range schedule.Items {
		input.Items = append(input.Items, dto.SaveItemInput{
			Time:        item.Time,
			Task:        item.Task,
			Type:        item.Type,
			Reason:      item.Reason,
			KeyConcepts: item.KeyConcepts,
			Resources:   item.Resources,
		})
	}
	return h.usecase.SaveDay(ctx, input)
}

func (h CLIHandler) LoadDay(ctx context.Context, date string) (dto.ScheduleOutput, error) {
	return h.usecase.LoadDay(ctx, date)
}

func (h CLIHandler) UpdateTask(ctx context.Context, id int64, task, timeText string) error {
	return h.usecase.UpdateTask(ctx, dto.UpdateTaskInput{ID: id, Task: task, Time: timeText})
}

func (h CLIHandler) DeleteTask(ctx context.Context, id int64) error {
	return h.usecase.DeleteTask(ctx, id)
}

func (h CLIHandler) ClearDay(ctx context.Context, date string) error {
	return h.usecase.ClearDay(ctx, date)
}

func (h CLIHandler) AnalyzeSyllabus(ctx context.Context, filename string, content []byte) (dto.AnalyzeOutput, error) {
	return h.usecase.AnalyzeSyllabus(ctx, dto.AnalyzeInput{Filename: filename, Content: content})
}
