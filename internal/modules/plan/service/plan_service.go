package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	"github.com/Jibinz12/cerebra-app/internal/platform/clock"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/platform/timetext"
)

// Energy levels the planner understands.
const (
	EnergyLow    = "Low"
	EnergyMedium = "Medium"
	EnergyHigh   = "High"
)

type PlanService struct {
	clock clock.Clock
}

func NewPlanService(clk clock.Clock) *PlanService {
	return &PlanService{clock: clk}
}

// NormalizeTopics trims and drops empty entries. A request with no
// usable topic never reaches the network.
func (s *PlanService) NormalizeTopics(topics []string) ([]string, error) {
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			out = append(out, topic)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.ErrNoTopics
	}
	return out, nil
}

// NormalizeEnergy maps free-form input onto the canonical levels,
// defaulting to Medium.
func (s *PlanService) NormalizeEnergy(energy string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(energy)) {
	case "":
		return EnergyMedium, nil
	case "low":
		return EnergyLow, nil
	case "medium", "mid":
		return EnergyMedium, nil
	case "high":
		return EnergyHigh, nil
	}
	return "", fmt.Errorf("%w: energy %q", apperrors.ErrInvalidInput, energy)
}

// ResolveWindow fills an empty start time and date from the clock and
// validates explicit ones.
func (s *PlanService) ResolveWindow(start, date string) (string, string, error) {
	now := s.clock.Now()
	if start == "" {
		start = timetext.FormatClock(now.Hour()*60 + now.Minute())
	} else if _, err := timetext.ParseClock(start); err != nil {
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if date == "" {
		date = now.Format(domain.DateFormat)
	} else if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return "", "", fmt.Errorf("%w: date %q, want YYYY-MM-DD", apperrors.ErrInvalidInput, date)
	}
	return start, date, nil
}

// ReconcileIDs attaches calendar row ids to items. The add endpoint
// returns no id and the batch creates land in no particular order, so
// rows are matched back by their stored time and task text, duplicate
// slots resolving in listing order. Only a listing that covers the
// schedule one-to-one is trusted; anything else leaves the items
// untouched.
func (s *PlanService) ReconcileIDs(schedule *domain.Schedule, tasks []domain.CalendarTask) bool {
	if len(tasks) == 0 || len(tasks) != len(schedule.Items) {
		return false
	}
	ids := make([]int64, len(schedule.Items))
	used := make([]bool, len(tasks))
	for i, item := range schedule.Items {
		matched := false
		for j, task := range tasks {
			if used[j] || task.Time != item.TimeText || task.Task != item.Task {
				continue
			}
			ids[i], used[j] = task.ID, true
			matched = true
			break
		}
		if !matched {
			return false
		}
	}
	for i := range schedule.Items {
		schedule.Items[i].RemoteID = ids[i]
	}
	return true
}

// ScheduleFromTasks rebuilds a day from its calendar rows. Restored
// days carry the stock tip; a fresh generation is the only source of
// real coaching.
func (s *PlanService) ScheduleFromTasks(date string, tasks []domain.CalendarTask) domain.Schedule {
	items := make([]domain.Item, 0, len(tasks))
	for _, task := range tasks {
		item := domain.NewItem(task.Time, task.Task, task.Type, task.Reason, task.KeyConcepts, task.Resources)
		item.RemoteID = task.ID
		items = append(items, item)
	}
	schedule := domain.Schedule{Date: date, Items: items}
	if len(items) > 0 {
		schedule.Tip = domain.RestoredTip
	}
	return schedule
}
