package out

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/platform/rest"
)

// HTTPPlanner talks to the study service's generation endpoints. It
// implements both the Planner and SyllabusAnalyzer ports; they live on
// the same remote surface.
type HTTPPlanner struct {
	client *rest.Client
}

func NewHTTPPlanner(client *rest.Client) *HTTPPlanner {
	return &HTTPPlanner{client: client}
}

type planRequest struct {
	EnergyLevel    string   `json:"energy_level"`
	HoursAvailable int      `json:"hours_available"`
	Subjects       []string `json:"subjects"`
	CurrentTime    string   `json:"current_time"`
	Date           string   `json:"date"`
}

type planItem struct {
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
}

// planResponse mirrors the service, which reports generation trouble
// as an error field on a 200 rather than a failure status.
type planResponse struct {
	Schedule []planItem `json:"schedule"`
	Tip      string     `json:"tip"`
	Error    string     `json:"error"`
}

func (p *HTTPPlanner) GeneratePlan(ctx context.Context, req domain.PlanRequest) (domain.Schedule, error) {
	payload := planRequest{
		EnergyLevel:    req.Energy,
		HoursAvailable: req.Hours,
		Subjects:       req.Subjects,
		CurrentTime:    req.CurrentTime,
		Date:           req.Date,
	}
	var resp planResponse
	if err := p.client.Do(ctx, http.MethodPost, "/generate-plan", nil, payload, &resp); err != nil {
		return domain.Schedule{}, err
	}
	if resp.Error != "" {
		return domain.Schedule{}, fmt.Errorf("%w: %s", apperrors.ErrGenerationFailed, resp.Error)
	}

	items := make([]domain.Item, 0, len(resp.Schedule))
	for _, it := range resp.Schedule {
		items = append(items, domain.NewItem(it.Time, it.Task, it.Type, it.Reason, it.KeyConcepts, it.SuggestedResources))
	}
	return domain.Schedule{Tip: resp.Tip, Items: items}, nil
}

type analyzeResponse struct {
	Topics []string `json:"topics"`
	Error  string   `json:"error"`
}

// AnalyzeSyllabus uploads the file; the service extracts and flattens
// the topics into lines ready for a generate request.
func (p *HTTPPlanner) AnalyzeSyllabus(ctx context.Context, filename string, content []byte) ([]string, error) {
	var resp analyzeResponse
	if err := p.client.Upload(ctx, "/analyze-syllabus", "file", filename, content, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrGenerationFailed, resp.Error)
	}
	return resp.Topics, nil
}
