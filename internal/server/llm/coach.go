package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PlanRequest mirrors the generate-plan wire payload.
type PlanRequest struct {
	EnergyLevel    string
	HoursAvailable int
	Subjects       []string
	CurrentTime    string
	Date           string
}

type PlanItem struct {
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
}

type Plan struct {
	Schedule []PlanItem `json:"schedule"`
	Tip      string     `json:"tip"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Coach turns study requests into model prompts and parses the JSON
// that comes back. With no reachable provider it still produces plans
// through the deterministic fallback, but quizzes and syllabus
// analysis need a real model.
type Coach struct {
	provider Provider
	log      *zap.SugaredLogger
}

func NewCoach(provider Provider, log *zap.SugaredLogger) *Coach {
	return &Coach{provider: provider, log: log}
}

// ProviderAvailable reports whether a model backend is reachable.
func (c *Coach) ProviderAvailable(ctx context.Context) bool {
	return c.provider != nil && c.provider.Available(ctx)
}

func (c *Coach) GeneratePlan(ctx context.Context, req PlanRequest) (Plan, error) {
	if !c.ProviderAvailable(ctx) {
		c.log.Infow("model backend unreachable, using heuristic planner",
			"subjects", len(req.Subjects), "hours", req.HoursAvailable)
		return HeuristicPlan(req), nil
	}

	raw, err := c.provider.Generate(ctx, planPrompt(req))
	if err != nil {
		return Plan{}, fmt.Errorf("plan generation: %w", err)
	}
	var plan Plan
	if err := json.Unmarshal([]byte(extractJSON(raw)), &plan); err != nil {
		return Plan{}, fmt.Errorf("plan generation: unreadable model output: %w", err)
	}
	if len(plan.Schedule) == 0 {
		return Plan{}, fmt.Errorf("plan generation: model returned no schedule")
	}
	return plan, nil
}

func (c *Coach) GenerateQuiz(ctx context.Context, topic string) ([]QuizQuestion, error) {
	if !c.ProviderAvailable(ctx) {
		return nil, fmt.Errorf("quiz generation: no model backend reachable")
	}

	raw, err := c.provider.Generate(ctx, quizPrompt(topic))
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}
	var out struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("quiz generation: unreadable model output: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("quiz generation: model returned no questions")
	}
	return out.Questions, nil
}

// AnalyzeSyllabus breaks syllabus text into "Module (sub1, sub2)"
// topic lines.
func (c *Coach) AnalyzeSyllabus(ctx context.Context, text string) ([]string, error) {
	if !c.ProviderAvailable(ctx) {
		return nil, fmt.Errorf("syllabus analysis: no model backend reachable")
	}

	raw, err := c.provider.Generate(ctx, syllabusPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("syllabus analysis: %w", err)
	}
	var out struct {
		Syllabus []struct {
			Module    string   `json:"module"`
			Subtopics []string `json:"subtopics"`
		} `json:"syllabus"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("syllabus analysis: unreadable model output: %w", err)
	}

	topics := make([]string, 0, len(out.Syllabus))
	for _, unit := range out.Syllabus {
		module := strings.TrimSpace(unit.Module)
		if module == "" {
			continue
		}
		if len(unit.Subtopics) == 0 {
			topics = append(topics, module)
			continue
		}
		topics = append(topics, fmt.Sprintf("%s (%s)", module, strings.Join(unit.Subtopics, ", ")))
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("syllabus analysis: model found no modules")
	}
	return topics, nil
}

// studyStyle maps energy to the coaching style the prompt asks for.
func studyStyle(energy string) string {
	switch energy {
	case "Low":
		return "Passive Learning (Videos/Reading)"
	case "High":
		return "Active Recall & Problem Solving"
	}
	return "balanced"
}

func planPrompt(req PlanRequest) string {
	subjects, _ := json.Marshal(req.Subjects)
	return fmt.Sprintf(`Create a detailed study schedule for %s, starting at %s.
User Energy: %s (%s).
Time Available: %d Hours.
Topics: %s
INSTRUCTIONS: Provide 3 "key_concepts" and 2 "suggested_resources" per task. Prefix each resource with "video:" or "article:".
Return STRICT JSON: { "schedule": [ { "time": "HH:MM - HH:MM", "task": "Topic", "type": "Deep Work/Break", "reason": "Strategy", "key_concepts": [], "suggested_resources": [] } ], "tip": "Motivation" }`,
		req.Date, req.CurrentTime, req.EnergyLevel, studyStyle(req.EnergyLevel), req.HoursAvailable, subjects)
}

func quizPrompt(topic string) string {
	return fmt.Sprintf(`Create 3 hard multiple-choice questions for %q.
Return STRICT JSON: { "questions": [ { "question": "?", "options": ["A", "B", "C", "D"], "answer": "A" } ] }
The "answer" value must match one option exactly.`, topic)
}

func syllabusPrompt(text string) string {
	return fmt.Sprintf(`Analyze this syllabus. Return STRICT JSON: { "syllabus": [ { "module": "Name", "subtopics": ["Sub 1"] } ] }

TEXT:
%s`, text)
}

// extractJSON trims chatter around the outermost JSON object; models
// sometimes wrap their output in prose or code fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
