package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
	planin "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/in"
	planout "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/out"
	"github.com/Jibinz12/cerebra-app/internal/modules/plan/service"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

type Interactor struct {
	svc      *service.PlanService
	planner  planout.Planner
	calendar planout.Calendar
	analyzer planout.SyllabusAnalyzer
}

func NewInteractor(svc *service.PlanService, planner planout.Planner, calendar planout.Calendar, analyzer planout.SyllabusAnalyzer) planin.Usecase {
	return &Interactor{svc: svc, planner: planner, calendar: calendar, analyzer: analyzer}
}

// Generate validates locally, then asks the remote planner for a day.
// Nothing is persisted here; SaveDay runs as its own step so the fresh
// schedule can show even when the calendar is unreachable.
func (i *Interactor) Generate(ctx context.Context, input dto.GenerateInput) (dto.ScheduleOutput, error) {
	topics, err := i.svc.NormalizeTopics(input.Topics)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	energy, err := i.svc.NormalizeEnergy(input.Energy)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	if input.Hours <= 0 {
		return dto.ScheduleOutput{}, fmt.Errorf("%w: available hours must be positive", apperrors.ErrInvalidInput)
	}
	start, date, err := i.svc.ResolveWindow(input.Start, input.Date)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}

	schedule, err := i.planner.GeneratePlan(ctx, domain.PlanRequest{
		Energy:      energy,
		Hours:       input.Hours,
		Subjects:    topics,
		CurrentTime: start,
		Date:        date,
	})
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	schedule.Date = date
	return toScheduleOutput(schedule), nil
}

// SaveDay writes every slot concurrently and waits for the whole
// batch. Failures do not roll back siblings; the first one comes back
// as the error alongside the count that made it through. After a clean
// batch the day is listed again to pick up the row ids the add
// endpoint never returns.
func (i *Interactor) SaveDay(ctx context.Context, input dto.SaveDayInput) (dto.SaveDayOutput, error) {
	if input.Date == "" || len(input.Items) == 0 {
		return dto.SaveDayOutput{}, fmt.Errorf("%w: nothing to save", apperrors.ErrInvalidInput)
	}
	items := make([]domain.Item, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, domain.NewItem(in.Time, in.Task, in.Type, in.Reason, in.KeyConcepts, in.Resources))
	}
	schedule := domain.Schedule{Date: input.Date, Items: items}

	var g errgroup.Group
	created := make([]bool, len(items))
	for idx, item := range items {
		idx := idx
		task := domain.CalendarTask{
			Date:        input.Date,
			Time:        item.TimeText,
			Task:        item.Task,
			Type:        item.Type,
			Reason:      item.Reason,
			KeyConcepts: item.KeyConcepts,
			Resources:   item.Resources,
		}
		g.Go(func() error {
			if err := i.calendar.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("save %q: %w", task.Task, err)
			}
			created[idx] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		n := 0
		for _, ok := range created {
			if ok {
				n++
			}
		}
		return dto.SaveDayOutput{Schedule: toScheduleOutput(schedule), Created: n}, err
	}

	out := dto.SaveDayOutput{Created: len(items)}
	if tasks, err := i.calendar.TasksForDate(ctx, input.Date); err == nil {
		out.Reconciled = i.svc.ReconcileIDs(&schedule, tasks)
	}
	out.Schedule = toScheduleOutput(schedule)
	return out, nil
}

// LoadDay rebuilds a schedule from the calendar. An empty day is not
// an error; it just has no items.
func (i *Interactor) LoadDay(ctx context.Context, date string) (dto.ScheduleOutput, error) {
	_, date, err := i.svc.ResolveWindow("", date)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	tasks, err := i.calendar.TasksForDate(ctx, date)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	out := toScheduleOutput(i.svc.ScheduleFromTasks(date, tasks))
	for idx := range out.Items {
		out.Items[idx].Completed = tasks[idx].Completed
	}
	return out, nil
}

func (i *Interactor) UpdateTask(ctx context.Context, input dto.UpdateTaskInput) error {
	if input.ID == 0 {
		return fmt.Errorf("%w: task id required", apperrors.ErrInvalidInput)
	}
	if input.Task == "" || input.Time == "" {
		return fmt.Errorf("%w: task and time are both required on update", apperrors.ErrInvalidInput)
	}
	return i.calendar.UpdateTask(ctx, input.ID, domain.TaskUpdate{Task: input.Task, Time: input.Time})
}

func (i *Interactor) DeleteTask(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: task id required", apperrors.ErrInvalidInput)
	}
	return i.calendar.DeleteTask(ctx, id)
}

// ClearDay wipes one date, or the whole calendar when date is empty.
func (i *Interactor) ClearDay(ctx context.Context, date string) error {
	return i.calendar.ClearTasks(ctx, date)
}

func (i *Interactor) AnalyzeSyllabus(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error) {
	if len(input.Content) == 0 {
		return dto.AnalyzeOutput{}, fmt.Errorf("%w: empty syllabus upload", apperrors.ErrInvalidInput)
	}
	topics, err := i.analyzer.AnalyzeSyllabus(ctx, input.Filename, input.Content)
	if err != nil {
		return dto.AnalyzeOutput{}, err
	}
	return dto.AnalyzeOutput{Topics: topics}, nil
}

func toScheduleOutput(schedule domain.Schedule) dto.ScheduleOutput {
	out := dto.ScheduleOutput{Date: schedule.Date, Tip: schedule.Tip, Items: make([]dto.ItemOutput, 0, len(schedule.Items))}
	for _, item := range schedule.Items {
		out.Items = append(out.Items, dto.ItemOutput{
			ID:          item.RemoteID,
			Time:        item.TimeText,
			Task:        item.Task,
			Type:        item.Type,
			Reason:      item.Reason,
			KeyConcepts: item.KeyConcepts,
			Resources:   item.Resources,
			DurationMin: item.DurationMinutes(),
			IsBreak:     item.IsBreak(),
		})
	}
	return out
}
