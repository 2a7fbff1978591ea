package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Jibinz12/cerebra-app/internal/platform/clock"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const stampLayout = "2006-01-02T15:04:05Z07:00"

// historyLimit caps the stats history at the most recent entries.
const historyLimit = 50

// LogEntry is one finished study session.
type LogEntry struct {
	ID              int64
	Topic           string
	DurationMinutes int
	XPEarned        int
	Timestamp       time.Time
}

// Task is one planned calendar slot. The list fields live in the row
// as JSON text and only exist as slices on either side of the store.
type Task struct {
	ID                 int64
	Date               string
	Time               string
	Task               string
	Type               string
	Reason             string
	KeyConcepts        []string
	SuggestedResources []string
	Completed          bool
}

// TaskEdit rewrites a task's name and time range.
type TaskEdit struct {
	Task string
	Time string
}

// Store keeps logs, the running XP total, and planned tasks in SQLite.
type Store struct {
	db     *sql.DB
	runner tx.Runner
	clock  clock.Clock
}

func New(dbPath string, clk clock.Clock) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db, runner: tx.NewRunner(db), clock: clk}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS study_logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  topic TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  xp_earned INTEGER NOT NULL,
  timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_study_logs_stamp ON study_logs(timestamp);

CREATE TABLE IF NOT EXISTS user_stats (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  total_xp INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS planned_tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  time TEXT NOT NULL,
  task TEXT NOT NULL,
  type TEXT NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  key_concepts TEXT NOT NULL DEFAULT '[]',
  suggested_resources TEXT NOT NULL DEFAULT '[]',
  completed INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_planned_tasks_date ON planned_tasks(date);

INSERT INTO user_stats (id, total_xp) VALUES (1, 0)
ON CONFLICT(id) DO NOTHING;
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendLog records a session and folds its XP into the running total
// in the same transaction. The total never drops below zero, whatever
// the delta.
func (s *Store) AppendLog(ctx context.Context, topic string, minutes, xp int) (int, error) {
	var total int
	err := s.runner.Within(ctx, func(dbtx *sql.Tx) error {
		stamp := s.clock.Now().UTC().Format(stampLayout)
		if _, err := dbtx.ExecContext(ctx, `
INSERT INTO study_logs (topic, duration_minutes, xp_earned, timestamp)
VALUES (?, ?, ?, ?)`, topic, minutes, xp, stamp); err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		if _, err := dbtx.ExecContext(ctx, `
UPDATE user_stats SET total_xp = MAX(total_xp + ?, 0) WHERE id = 1`, xp); err != nil {
			return fmt.Errorf("update total: %w", err)
		}
		if err := dbtx.QueryRowContext(ctx, `SELECT total_xp FROM user_stats WHERE id = 1`).Scan(&total); err != nil {
			return fmt.Errorf("read total: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Stats returns the running total and the newest log entries.
func (s *Store) Stats(ctx context.Context) (int, []LogEntry, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT total_xp FROM user_stats WHERE id = 1`).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("read total: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, topic, duration_minutes, xp_earned, timestamp
FROM study_logs
ORDER BY timestamp DESC, id DESC
LIMIT ?`, historyLimit)
	if err != nil {
		return 0, nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	history := make([]LogEntry, 0, historyLimit)
	for rows.Next() {
		var entry LogEntry
		var stamp string
		if err := rows.Scan(&entry.ID, &entry.Topic, &entry.DurationMinutes, &entry.XPEarned, &stamp); err != nil {
			return 0, nil, fmt.Errorf("scan log: %w", err)
		}
		entry.Timestamp, _ = time.Parse(stampLayout, stamp)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("iterate logs: %w", err)
	}
	return total, history, nil
}

// ResetHistory wipes the log, optionally zeroing the XP total with it.
func (s *Store) ResetHistory(ctx context.Context, resetXP bool) error {
	return s.runner.Within(ctx, func(dbtx *sql.Tx) error {
		if _, err := dbtx.ExecContext(ctx, `DELETE FROM study_logs`); err != nil {
			return fmt.Errorf("clear logs: %w", err)
		}
		if resetXP {
			if _, err := dbtx.ExecContext(ctx, `UPDATE user_stats SET total_xp = 0 WHERE id = 1`); err != nil {
				return fmt.Errorf("zero total: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) CreateTask(ctx context.Context, task Task) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO planned_tasks (date, time, task, type, reason, key_concepts, suggested_resources, completed)
VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		task.Date, task.Time, task.Task, task.Type, task.Reason,
		encodeList(task.KeyConcepts), encodeList(task.SuggestedResources))
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

func (s *Store) TasksForDate(ctx context.Context, date string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, date, time, task, type, reason, key_concepts, suggested_resources, completed
FROM planned_tasks
WHERE date = ?
ORDER BY id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		var task Task
		var concepts, resources string
		if err := rows.Scan(&task.ID, &task.Date, &task.Time, &task.Task, &task.Type, &task.Reason, &concepts, &resources, &task.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.KeyConcepts = decodeList(concepts)
		task.SuggestedResources = decodeList(resources)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, edit TaskEdit) error {
	res, err := s.db.ExecContext(ctx, `UPDATE planned_tasks SET task = ?, time = ? WHERE id = ?`, edit.Task, edit.Time, id)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task %d", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM planned_tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ClearTasks removes one date's tasks, or every task when date is
// empty.
func (s *Store) ClearTasks(ctx context.Context, date string) error {
	var err error
	if date == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM planned_tasks`)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM planned_tasks WHERE date = ?`, date)
	}
	if err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(payload)
}

// decodeList tolerates rows whose list column holds plain text instead
// of a JSON array; the whole value comes back as a single entry.
func decodeList(raw string) []string {
	if raw == "" || raw == "[]" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{raw}
	}
	return values
}
