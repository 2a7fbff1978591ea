package llm

import (
	"strings"
	"testing"

	"github.com/Jibinz12/cerebra-app/internal/platform/timetext"
)

func TestHeuristicPlanTilesWorkAndBreaks(t *testing.T) {
	t.Parallel()

	plan := HeuristicPlan(PlanRequest{
		EnergyLevel:    "Medium",
		HoursAvailable: 2,
		Subjects:       []string{"Go", "SQL"},
		CurrentTime:    "09:00",
	})

	want := []struct {
		time string
		task string
	}{
		{"09:00 - 09:40", "Go"},
		{"09:40 - 09:50", "Break"},
		{"09:50 - 10:30", "SQL"},
		{"10:30 - 10:40", "Break"},
		{"10:40 - 11:00", "Go"},
	}
	if len(plan.Schedule) != len(want) {
		t.Fatalf("schedule length = %d, want %d: %+v", len(plan.Schedule), len(want), plan.Schedule)
	}

	total := 0
	for i, item := range plan.Schedule {
		if item.Time != want[i].time || item.Task != want[i].task {
			t.Errorf("item %d = %q %q, want %q %q", i, item.Time, item.Task, want[i].time, want[i].task)
		}
		r, err := timetext.ParseRange(item.Time)
		if err != nil {
			t.Fatalf("item %d range %q does not parse: %v", i, item.Time, err)
		}
		total += r.Duration()
	}
	if total != 120 {
		t.Fatalf("scheduled minutes = %d, want the full 120", total)
	}
}

func TestHeuristicPlanEnergyShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		energy       string
		firstMinutes int
		firstType    string
	}{
		{"Low", 25, "Passive Learning"},
		{"Medium", 40, "Deep Work"},
		{"High", 50, "Active Recall"},
		{"Cosmic", 40, "Deep Work"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.energy, func(t *testing.T) {
			t.Parallel()
			plan := HeuristicPlan(PlanRequest{
				EnergyLevel:    tc.energy,
				HoursAvailable: 1,
				Subjects:       []string{"Physics"},
				CurrentTime:    "10:00",
			})
			if len(plan.Schedule) == 0 {
				t.Fatal("empty schedule")
			}
			first := plan.Schedule[0]
			r, err := timetext.ParseRange(first.Time)
			if err != nil {
				t.Fatalf("first range %q: %v", first.Time, err)
			}
			if r.Duration() != tc.firstMinutes {
				t.Errorf("first block = %d minutes, want %d", r.Duration(), tc.firstMinutes)
			}
			if first.Type != tc.firstType {
				t.Errorf("first type = %q, want %q", first.Type, tc.firstType)
			}
		})
	}
}

func TestHeuristicPlanDefaultsWhenRequestSparse(t *testing.T) {
	t.Parallel()

	plan := HeuristicPlan(PlanRequest{})

	if plan.Tip != heuristicTips["Medium"] {
		t.Fatalf("tip = %q, want the steady default", plan.Tip)
	}
	if len(plan.Schedule) == 0 {
		t.Fatal("empty schedule")
	}
	first := plan.Schedule[0]
	if first.Task != "Focused Study" {
		t.Fatalf("first task = %q, want the placeholder subject", first.Task)
	}
	if !strings.HasPrefix(first.Time, "09:00 - ") {
		t.Fatalf("first slot = %q, want a 09:00 start", first.Time)
	}

	total := 0
	for _, item := range plan.Schedule {
		total += timetext.DurationOrFallback(item.Time)
	}
	if total != 60 {
		t.Fatalf("scheduled minutes = %d, want the one-hour default", total)
	}
}

func TestHeuristicPlanTagsResources(t *testing.T) {
	t.Parallel()

	plan := HeuristicPlan(PlanRequest{
		EnergyLevel:    "High",
		HoursAvailable: 1,
		Subjects:       []string{"Graph Theory"},
		CurrentTime:    "14:00",
	})

	first := plan.Schedule[0]
	if len(first.SuggestedResources) != 2 {
		t.Fatalf("resources = %v", first.SuggestedResources)
	}
	if !strings.HasPrefix(first.SuggestedResources[0], "video: ") {
		t.Errorf("resource[0] = %q, want a video: prefix", first.SuggestedResources[0])
	}
	if !strings.HasPrefix(first.SuggestedResources[1], "article: ") {
		t.Errorf("resource[1] = %q, want an article: prefix", first.SuggestedResources[1])
	}
	if len(first.KeyConcepts) != 2 {
		t.Errorf("key concepts = %v", first.KeyConcepts)
	}

	for _, item := range plan.Schedule {
		if item.Task != "Break" {
			continue
		}
		if len(item.KeyConcepts) != 0 || len(item.SuggestedResources) != 0 {
			t.Errorf("break item carries study material: %+v", item)
		}
	}
}

func TestHeuristicPlanWrapsPastMidnight(t *testing.T) {
	t.Parallel()

	plan := HeuristicPlan(PlanRequest{
		EnergyLevel:    "Medium",
		HoursAvailable: 1,
		Subjects:       []string{"Astronomy"},
		CurrentTime:    "23:50",
	})

	first := plan.Schedule[0]
	if first.Time != "23:50 - 00:30" {
		t.Fatalf("first slot = %q, want it to roll past midnight", first.Time)
	}
	r, err := timetext.ParseRange(first.Time)
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Duration() != 40 {
		t.Fatalf("wrapped duration = %d, want 40", r.Duration())
	}
}
