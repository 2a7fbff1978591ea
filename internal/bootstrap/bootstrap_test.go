package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	focusdto "github.com/Jibinz12/cerebra-app/internal/modules/focus/dto"
	plandomain "github.com/Jibinz12/cerebra-app/internal/modules/plan/domain"
	"github.com/Jibinz12/cerebra-app/internal/platform/clock"
	"github.com/Jibinz12/cerebra-app/internal/platform/config"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/server/api"
	"github.com/Jibinz12/cerebra-app/internal/server/llm"
	"github.com/Jibinz12/cerebra-app/internal/server/storage"
)

// startService runs the real router over a throwaway SQLite file, with
// no model backend wired, and returns its base URL.
func startService(t *testing.T, token string) string {
	t.Helper()
	log := zap.NewNop().Sugar()

	store, err := storage.New(filepath.Join(t.TempDir(), "cerebra.db"), clock.SystemClock{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store, llm.NewCoach(nil, log), log), token))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newClient(url, token string) *App {
	return New(config.Config{Service: config.Service{BaseURL: url, Token: token}})
}

func TestPlanRoundTrip(t *testing.T) {
	t.Parallel()
	app := newClient(startService(t, ""), "")
	ctx := context.Background()
	const date = "2026-05-04"

	out, err := app.PlanCLI.Generate(ctx, []string{"Go", "SQL"}, 1, "Medium", "09:00", date)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Date != date || out.Tip == "" {
		t.Fatalf("header = %q %q", out.Date, out.Tip)
	}
	if len(out.Items) != 3 {
		t.Fatalf("items = %d, want the tiled hour: %+v", len(out.Items), out.Items)
	}
	if out.Items[0].Time != "09:00 - 09:40" || out.Items[0].DurationMin != 40 {
		t.Fatalf("first block = %+v", out.Items[0])
	}
	if !out.Items[1].IsBreak || out.Items[0].IsBreak {
		t.Fatalf("break placement off: %+v", out.Items)
	}

	saved, err := app.PlanCLI.SaveDay(ctx, out)
	if err != nil {
		t.Fatalf("save day: %v", err)
	}
	if saved.Created != 3 || !saved.Reconciled {
		t.Fatalf("save = created %d, reconciled %v", saved.Created, saved.Reconciled)
	}
	idToTask := map[int64]string{}
	for _, item := range saved.Schedule.Items {
		if item.ID == 0 {
			t.Fatalf("slot %q missing a row id", item.Task)
		}
		idToTask[item.ID] = item.Task
	}
	if len(idToTask) != 3 {
		t.Fatalf("ids not distinct: %+v", saved.Schedule.Items)
	}

	loaded, err := app.PlanCLI.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if loaded.Tip != plandomain.RestoredTip {
		t.Fatalf("tip = %q", loaded.Tip)
	}
	if len(loaded.Items) != 3 {
		t.Fatalf("reloaded items = %d", len(loaded.Items))
	}
	var breakID int64
	for _, item := range loaded.Items {
		if idToTask[item.ID] != item.Task {
			t.Fatalf("id %d carries %q, saved as %q", item.ID, item.Task, idToTask[item.ID])
		}
		if item.IsBreak {
			breakID = item.ID
		}
	}

	goID := saved.Schedule.Items[0].ID
	if err := app.PlanCLI.UpdateTask(ctx, goID, "Go generics", "20:00 - 21:00"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := app.PlanCLI.UpdateTask(ctx, 99999, "ghost", "08:00 - 09:00"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("update unknown id: got %v, want ErrNotFound", err)
	}

	loaded, err = app.PlanCLI.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	edited := false
	for _, item := range loaded.Items {
		if item.ID == goID {
			edited = item.Task == "Go generics" && item.Time == "20:00 - 21:00"
		}
	}
	if !edited {
		t.Fatalf("edit did not land: %+v", loaded.Items)
	}

	if err := app.PlanCLI.DeleteTask(ctx, breakID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := app.PlanCLI.DeleteTask(ctx, breakID); err != nil {
		t.Fatalf("repeat delete should be idempotent: %v", err)
	}
	loaded, err = app.PlanCLI.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded.Items) != 2 {
		t.Fatalf("after delete: %d items", len(loaded.Items))
	}

	if err := app.PlanCLI.ClearDay(ctx, date); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, err = app.PlanCLI.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded.Items) != 0 || loaded.Tip != "" {
		t.Fatalf("cleared day = %+v", loaded)
	}
}

func TestProgressAndFocusRoundTrip(t *testing.T) {
	t.Parallel()
	app := newClient(startService(t, ""), "")
	ctx := context.Background()

	out, err := app.ProgressCLI.Log(ctx, "Algebra", 30, 50)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out.LogDropped || out.Stats.TotalXP != 50 {
		t.Fatalf("after first log: %+v", out)
	}

	out, err = app.ProgressCLI.Log(ctx, "Oops", 5, -200)
	if err != nil {
		t.Fatalf("negative log: %v", err)
	}
	if out.Stats.TotalXP != 0 {
		t.Fatalf("total = %d, want the zero clamp", out.Stats.TotalXP)
	}

	award, err := app.Focus.Complete(ctx, focusdto.CompletionInput{Task: "Deep work", PlannedMinutes: 40})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if award.TotalXP != 100 || award.Level != 1 || award.LogDropped {
		t.Fatalf("award = %+v", award)
	}

	stats, err := app.ProgressCLI.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalXP != 100 || len(stats.History) != 3 {
		t.Fatalf("stats = total %d, %d rows", stats.TotalXP, len(stats.History))
	}
	newest := stats.History[0]
	if newest.Topic != "Deep work" || newest.Minutes != 40 || newest.XP != 100 {
		t.Fatalf("newest row = %+v", newest)
	}

	if err := app.ProgressCLI.ResetHistory(ctx, true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	stats, err = app.ProgressCLI.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after reset: %v", err)
	}
	if stats.TotalXP != 0 || len(stats.History) != 0 {
		t.Fatalf("after reset: %+v", stats)
	}
}

func TestQuizNeedsModelBackend(t *testing.T) {
	t.Parallel()
	app := newClient(startService(t, ""), "")

	_, err := app.QuizCLI.Start(context.Background(), "Go")
	if !errors.Is(err, apperrors.ErrGenerationFailed) {
		t.Fatalf("got %v, want ErrGenerationFailed with no model wired", err)
	}
}

func TestBearerTokenGuardsTheWire(t *testing.T) {
	t.Parallel()
	url := startService(t, "hunter2")
	ctx := context.Background()

	authed := newClient(url, "hunter2")
	if _, err := authed.ProgressCLI.Log(ctx, "Algebra", 10, 25); err != nil {
		t.Fatalf("authed log: %v", err)
	}

	stranger := newClient(url, "wrong")
	if _, err := stranger.ProgressCLI.Stats(ctx); !errors.Is(err, apperrors.ErrAuthExpired) {
		t.Fatalf("got %v, want ErrAuthExpired", err)
	}

	// Health stays open for probes.
	resp, err := http.Get(url + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}
