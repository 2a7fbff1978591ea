package llm

import (
	"fmt"

	"github.com/Jibinz12/cerebra-app/internal/platform/timetext"
)

// Heuristic block shapes per energy level, work/break minutes.
var blockShapes = map[string][2]int{
	"Low":    {25, 5},
	"Medium": {40, 10},
	"High":   {50, 10},
}

var heuristicTips = map[string]string{
	"Low":    "Low energy is fine. Watch, read, absorb; save the heavy lifting for later.",
	"Medium": "Steady blocks win the day. One topic at a time.",
	"High":   "You have the energy, so spend it on the hardest topic first.",
}

// HeuristicPlan tiles fixed work/break blocks from the start time when
// no model backend is reachable. Deterministic for a given request.
func HeuristicPlan(req PlanRequest) Plan {
	work, rest := 40, 10
	if shape, ok := blockShapes[req.EnergyLevel]; ok {
		work, rest = shape[0], shape[1]
	}

	activityType, reason := "Deep Work", "Uninterrupted block, steady pace."
	switch req.EnergyLevel {
	case "Low":
		activityType, reason = "Passive Learning", "Light input while energy is low."
	case "High":
		activityType, reason = "Active Recall", "Hard retrieval while energy is high."
	}

	subjects := req.Subjects
	if len(subjects) == 0 {
		subjects = []string{"Focused Study"}
	}

	cursor := 9 * 60
	if start, err := timetext.ParseClock(req.CurrentTime); err == nil {
		cursor = start
	}
	remaining := req.HoursAvailable * 60
	if remaining <= 0 {
		remaining = 60
	}

	plan := Plan{Tip: heuristicTips[req.EnergyLevel]}
	if plan.Tip == "" {
		plan.Tip = heuristicTips["Medium"]
	}
	for slot := 0; remaining > 0; slot++ {
		block := work
		if block > remaining {
			block = remaining
		}
		subject := subjects[slot%len(subjects)]
		plan.Schedule = append(plan.Schedule, PlanItem{
			Time:   timetext.FormatRange(timetext.Range{Start: cursor, End: cursor + block}),
			Task:   subject,
			Type:   activityType,
			Reason: reason,
			KeyConcepts: []string{
				fmt.Sprintf("Core ideas of %s", subject),
				fmt.Sprintf("Worked examples in %s", subject),
			},
			SuggestedResources: []string{
				"video: " + subject + " explained",
				"article: " + subject + " summary",
			},
		})
		cursor += block
		remaining -= block

		if remaining <= 0 {
			break
		}
		pause := rest
		if pause > remaining {
			pause = remaining
		}
		plan.Schedule = append(plan.Schedule, PlanItem{
			Time:               timetext.FormatRange(timetext.Range{Start: cursor, End: cursor + pause}),
			Task:               "Break",
			Type:               "Break",
			Reason:             "Reset before the next block.",
			KeyConcepts:        []string{},
			SuggestedResources: []string{},
		})
		cursor += pause
		remaining -= pause
	}
	return plan
}
