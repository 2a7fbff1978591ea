package out

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
)

// Planner is the remote drafting service.
type Planner interface {
	GeneratePlan(ctx context.Context, req domain.PlanRequest) (domain.Schedule, error)
}

// SyllabusAnalyzer turns an uploaded syllabus into topic lines.
type SyllabusAnalyzer interface {
	AnalyzeSyllabus(ctx context.Context, filename string, content []byte) ([]string, error)
}

// Calendar is the persisted day store behind the service.
type Calendar interface {
	CreateTask(ctx context.Context, task domain.CalendarTask) error
	TasksForDate(ctx context.Context, date string) ([]domain.CalendarTask, error)
	UpdateTask(ctx context.Context, id int64, fields domain.TaskUpdate) error
	DeleteTask(ctx context.Context, id int64) error
	ClearTasks(ctx context.Context, date string) error
}
