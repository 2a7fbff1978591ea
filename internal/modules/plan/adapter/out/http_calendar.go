package out

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	planout "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/out"
	"github.com/Jibinz12/cerebra-app/internal/platform/rest"
)

// HTTPCalendar persists day plans through the study service.
type HTTPCalendar struct {
	client *rest.Client
}

func NewHTTPCalendar(client *rest.Client) planout.Calendar {
	return &HTTPCalendar{client: client}
}

type taskPayload struct {
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
}

type taskRow struct {
	ID                 int64    `json:"id"`
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
	Completed          bool     `json:"completed"`
}

type taskListResponse struct {
	Tasks []taskRow `json:"tasks"`
}

type taskPatch struct {
	Task string `json:"task"`
	Time string `json:"time"`
}

func (c *HTTPCalendar) CreateTask(ctx context.Context, task domain.CalendarTask) error {
	payload := taskPayload{
		Date:               task.Date,
		Time:               task.Time,
		Task:               task.Task,
		Type:               task.Type,
		Reason:             task.Reason,
		KeyConcepts:        emptyNotNull(task.KeyConcepts),
		SuggestedResources: emptyNotNull(task.Resources),
	}
	return c.client.Do(ctx, http.MethodPost, "/calendar/add", nil, payload, nil)
}

func (c *HTTPCalendar) TasksForDate(ctx context.Context, date string) ([]domain.CalendarTask, error) {
	query := url.Values{"date": {date}}
	var resp taskListResponse
	if err := c.client.Do(ctx, http.MethodGet, "/calendar/get", query, nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]domain.CalendarTask, 0, len(resp.Tasks))
	for _, row := range resp.Tasks {
		tasks = append(tasks, domain.CalendarTask{
			ID:          row.ID,
			Date:        row.Date,
			Time:        row.Time,
			Task:        row.Task,
			Type:        row.Type,
			Reason:      row.Reason,
			KeyConcepts: row.KeyConcepts,
			Resources:   row.SuggestedResources,
			Completed:   row.Completed,
		})
	}
	return tasks, nil
}

func (c *HTTPCalendar) UpdateTask(ctx context.Context, id int64, fields domain.TaskUpdate) error {
	patch := taskPatch{Task: fields.Task, Time: fields.Time}
	return c.client.Do(ctx, http.MethodPut, fmt.Sprintf("/calendar/update/%d", id), nil, patch, nil)
}

func (c *HTTPCalendar) DeleteTask(ctx context.Context, id int64) error {
	return c.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/calendar/delete/%d", id), nil, nil, nil)
}

func (c *HTTPCalendar) ClearTasks(ctx context.Context, date string) error {
	var query url.Values
	if date != "" {
		query = url.Values{"date": {date}}
	}
	return c.client.Do(ctx, http.MethodDelete, "/calendar/reset", query, nil, nil)
}

// emptyNotNull keeps list fields as [] on the wire instead of null.
func emptyNotNull(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
