package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeProvider struct {
	available bool
	reply     string
	err       error
	prompts   []string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) Available(context.Context) bool { return f.available }

func (f *fakeProvider) Name() string { return "fake" }

func newTestCoach(p Provider) *Coach {
	return NewCoach(p, zap.NewNop().Sugar())
}

func TestGeneratePlanFallsBackWhenUnreachable(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{available: false}
	coach := newTestCoach(provider)

	plan, err := coach.GeneratePlan(context.Background(), PlanRequest{
		EnergyLevel:    "Medium",
		HoursAvailable: 1,
		Subjects:       []string{"Go"},
		CurrentTime:    "09:00",
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Schedule) == 0 {
		t.Fatal("fallback plan has no schedule")
	}
	if len(provider.prompts) != 0 {
		t.Fatalf("prompted an unreachable provider %d times", len(provider.prompts))
	}
}

func TestGeneratePlanWithoutProviderStillPlans(t *testing.T) {
	t.Parallel()

	coach := newTestCoach(nil)

	plan, err := coach.GeneratePlan(context.Background(), PlanRequest{EnergyLevel: "High", HoursAvailable: 2})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Schedule) == 0 {
		t.Fatal("want a heuristic schedule with no provider wired")
	}
}

func TestGeneratePlanParsesNoisyModelOutput(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		available: true,
		reply: "Sure, here is your plan:\n```json\n" +
			`{"schedule": [{"time": "09:00 - 09:40", "task": "Go", "type": "Deep Work", "reason": "warm up", "key_concepts": ["goroutines"], "suggested_resources": ["video: Go in an hour"]}], "tip": "Keep going"}` +
			"\n```\nGood luck!",
	}
	coach := newTestCoach(provider)

	plan, err := coach.GeneratePlan(context.Background(), PlanRequest{EnergyLevel: "Medium", HoursAvailable: 1})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Schedule) != 1 {
		t.Fatalf("schedule length = %d, want 1", len(plan.Schedule))
	}
	item := plan.Schedule[0]
	if item.Time != "09:00 - 09:40" || item.Task != "Go" {
		t.Fatalf("decoded item = %+v", item)
	}
	if plan.Tip != "Keep going" {
		t.Fatalf("tip = %q", plan.Tip)
	}
}

func TestGeneratePlanSurfacesModelFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("model exploded")
	coach := newTestCoach(&fakeProvider{available: true, err: boom})

	_, err := coach.GeneratePlan(context.Background(), PlanRequest{EnergyLevel: "Medium", HoursAvailable: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the provider failure, not a silent fallback", err)
	}
}

func TestGeneratePlanRejectsUnusableOutput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		reply string
	}{
		{"no json at all", "I cannot help with that."},
		{"empty schedule", `{"schedule": [], "tip": "try again"}`},
		{"wrong shape", `{"schedule": "later"}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			coach := newTestCoach(&fakeProvider{available: true, reply: tc.reply})
			if _, err := coach.GeneratePlan(context.Background(), PlanRequest{HoursAvailable: 1}); err == nil {
				t.Fatal("want an error for unusable model output")
			}
		})
	}
}

func TestGenerateQuizDecodesQuestions(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		available: true,
		reply:     `{"questions": [{"question": "What does go vet do?", "options": ["Lints", "Builds", "Tests", "Ships"], "answer": "Lints"}, {"question": "Zero value of a map?", "options": ["nil", "empty", "panic", "zero"], "answer": "nil"}]}`,
	}
	coach := newTestCoach(provider)

	questions, err := coach.GenerateQuiz(context.Background(), "Go tooling")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(questions))
	}
	if questions[0].Answer != "Lints" || len(questions[0].Options) != 4 {
		t.Fatalf("first question = %+v", questions[0])
	}
}

func TestGenerateQuizRequiresModelBackend(t *testing.T) {
	t.Parallel()

	coach := newTestCoach(&fakeProvider{available: false})
	if _, err := coach.GenerateQuiz(context.Background(), "Go"); err == nil {
		t.Fatal("want an error with no backend, quizzes have no fallback")
	}
}

func TestGenerateQuizRejectsEmptyQuestionList(t *testing.T) {
	t.Parallel()

	coach := newTestCoach(&fakeProvider{available: true, reply: `{"questions": []}`})
	if _, err := coach.GenerateQuiz(context.Background(), "Go"); err == nil {
		t.Fatal("want an error for an empty question list")
	}
}

func TestAnalyzeSyllabusFlattensModules(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		available: true,
		reply:     `{"syllabus": [{"module": "Pointers", "subtopics": ["Syntax", "Arithmetic"]}, {"module": "  Memory  ", "subtopics": []}, {"module": "", "subtopics": ["ghost"]}]}`,
	}
	coach := newTestCoach(provider)

	topics, err := coach.AnalyzeSyllabus(context.Background(), "week 1: pointers ...")
	if err != nil {
		t.Fatalf("AnalyzeSyllabus: %v", err)
	}
	want := []string{"Pointers (Syntax, Arithmetic)", "Memory"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("topics[%d] = %q, want %q", i, topics[i], want[i])
		}
	}
}

func TestAnalyzeSyllabusRequiresModules(t *testing.T) {
	t.Parallel()

	coach := newTestCoach(&fakeProvider{available: true, reply: `{"syllabus": []}`})
	if _, err := coach.AnalyzeSyllabus(context.Background(), "blank page"); err == nil {
		t.Fatal("want an error when the model finds no modules")
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", `{"a": 1}`, `{"a": 1}`},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose both sides", `Sure: {"a": {"b": 2}} hope that helps`, `{"a": {"b": 2}}`},
		{"no braces", "nothing here", "nothing here"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStudyStyleTracksEnergy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		energy string
		want   string
	}{
		{"Low", "Passive Learning (Videos/Reading)"},
		{"High", "Active Recall & Problem Solving"},
		{"Medium", "balanced"},
		{"", "balanced"},
	}
	for _, tc := range cases {
		if got := studyStyle(tc.energy); got != tc.want {
			t.Errorf("studyStyle(%q) = %q, want %q", tc.energy, got, tc.want)
		}
	}
}
