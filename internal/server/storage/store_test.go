package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

// stepClock hands out strictly increasing stamps so ordering by
// timestamp is deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newStore(t *testing.T) *Store {
	t.Helper()
	base, err := time.Parse("2006-01-02 15:04", "2026-03-02 09:00")
	if err != nil {
		t.Fatalf("parse base time: %v", err)
	}
	store, err := New(filepath.Join(t.TempDir(), "cerebra.db"), &stepClock{now: base})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendLogAccumulatesAndClampsTotal(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	total, err := store.AppendLog(ctx, "Algebra", 25, 50)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if total != 50 {
		t.Fatalf("total = %d, want 50", total)
	}

	total, err = store.AppendLog(ctx, "Undo: Algebra", 0, -200)
	if err != nil {
		t.Fatalf("append negative: %v", err)
	}
	if total != 0 {
		t.Fatalf("total after big undo = %d, want clamp at 0", total)
	}

	total, err = store.AppendLog(ctx, "Graphs", 25, 30)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if total != 30 {
		t.Fatalf("total = %d, want 30 on top of the clamped zero", total)
	}

	storedTotal, history, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if storedTotal != 30 {
		t.Fatalf("stored total = %d, want 30", storedTotal)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d entries, want 3", len(history))
	}
	if history[0].Topic != "Graphs" {
		t.Fatalf("newest first: got %q", history[0].Topic)
	}
	if history[0].Timestamp.IsZero() {
		t.Fatal("timestamp lost in the round trip")
	}
}

func TestStatsCapsHistoryAtNewestFifty(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 55; i++ {
		if _, err := store.AppendLog(ctx, fmt.Sprintf("session %d", i), 25, 10); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	_, history, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(history) != 50 {
		t.Fatalf("history = %d entries, want the 50 newest", len(history))
	}
	if history[0].Topic != "session 54" {
		t.Fatalf("newest entry = %q", history[0].Topic)
	}
	if history[49].Topic != "session 5" {
		t.Fatalf("oldest kept entry = %q", history[49].Topic)
	}
}

func TestResetHistoryKeepsTotalUnlessAsked(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.AppendLog(ctx, "Algebra", 25, 120); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := store.ResetHistory(ctx, false); err != nil {
		t.Fatalf("reset: %v", err)
	}
	total, history, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(history) != 0 || total != 120 {
		t.Fatalf("after reset: total %d, %d entries; want 120 and none", total, len(history))
	}

	if err := store.ResetHistory(ctx, true); err != nil {
		t.Fatalf("reset with xp: %v", err)
	}
	total, _, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0 after the xp reset", total)
	}
}

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	id, err := store.CreateTask(ctx, Task{
		Date:               "2026-03-02",
		Time:               "09:00 - 10:00",
		Task:               "Algebra",
		Type:               "Deep Work",
		Reason:             "morning focus",
		KeyConcepts:        []string{"factoring", "roots"},
		SuggestedResources: []string{"video: factoring"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("create returned no row id")
	}
	if _, err := store.CreateTask(ctx, Task{Date: "2026-03-03", Time: "09:00 - 09:25", Task: "Review", Type: "Recall"}); err != nil {
		t.Fatalf("create other day: %v", err)
	}

	tasks, err := store.TasksForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("listing leaked across dates: %d tasks", len(tasks))
	}
	got := tasks[0]
	if got.ID != id || got.Task != "Algebra" || got.Completed {
		t.Fatalf("task = %+v", got)
	}
	if len(got.KeyConcepts) != 2 || got.KeyConcepts[1] != "roots" {
		t.Fatalf("concepts lost in storage: %v", got.KeyConcepts)
	}
	if len(got.SuggestedResources) != 1 {
		t.Fatalf("resources lost in storage: %v", got.SuggestedResources)
	}

	if err := store.UpdateTask(ctx, id, TaskEdit{Task: "Algebra review", Time: "09:30 - 10:15"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	tasks, err = store.TasksForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if tasks[0].Task != "Algebra review" || tasks[0].Time != "09:30 - 10:15" {
		t.Fatalf("update lost: %+v", tasks[0])
	}
	if tasks[0].Reason != "morning focus" {
		t.Fatalf("update clobbered untouched fields: %+v", tasks[0])
	}

	if err := store.UpdateTask(ctx, 9999, TaskEdit{Task: "x", Time: "y"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("update of missing row: got %v, want ErrNotFound", err)
	}

	if err := store.DeleteTask(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = store.TasksForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("delete left %d tasks", len(tasks))
	}
}

func TestClearTasksScopesToDate(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-02", "2026-03-02", "2026-03-03"} {
		if _, err := store.CreateTask(ctx, Task{Date: date, Time: "09:00 - 09:25", Task: "Review", Type: "Recall"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := store.ClearTasks(ctx, "2026-03-02"); err != nil {
		t.Fatalf("clear date: %v", err)
	}
	remaining, err := store.TasksForDate(ctx, "2026-03-03")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("scoped clear touched other dates: %d left", len(remaining))
	}
	cleared, err := store.TasksForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("list cleared date: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("scoped clear left %d tasks", len(cleared))
	}

	if err := store.ClearTasks(ctx, ""); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	remaining, err = store.TasksForDate(ctx, "2026-03-03")
	if err != nil {
		t.Fatalf("list after clear all: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("clear all left %d tasks", len(remaining))
	}
}
