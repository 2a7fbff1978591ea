package out

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
	progressout "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/out"
	"github.com/Jibinz12/cerebra-app/internal/platform/rest"
)

// HTTPSessionLog appends experience records through the service.
type HTTPSessionLog struct {
	client *rest.Client
}

func NewHTTPSessionLog(client *rest.Client) progressout.SessionLog {
	return &HTTPSessionLog{client: client}
}

type logPayload struct {
	Topic    string `json:"topic"`
	Duration int    `json:"duration"`
	XP       int    `json:"xp"`
}

func (l *HTTPSessionLog) Append(ctx context.Context, entry domain.LogEntry) error {
	payload := logPayload{
		Topic:    entry.Topic,
		Duration: entry.DurationMinutes,
		XP:       entry.XPEarned,
	}
	// The reply carries the new total, but totals only count when they
	// come from a stats read.
	return l.client.Do(ctx, http.MethodPost, "/log-session", nil, payload, nil)
}

// HTTPStats reads and resets the authoritative totals.
type HTTPStats struct {
	client *rest.Client
}

func NewHTTPStats(client *rest.Client) progressout.Stats {
	return &HTTPStats{client: client}
}

type historyRow struct {
	ID              int64  `json:"id"`
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"duration_minutes"`
	XPEarned        int    `json:"xp_earned"`
	Timestamp       string `json:"timestamp"`
}

type statsResponse struct {
	TotalXP int          `json:"total_xp"`
	History []historyRow `json:"history"`
}

func (s *HTTPStats) Fetch(ctx context.Context) (domain.Stats, error) {
	var resp statsResponse
	if err := s.client.Do(ctx, http.MethodGet, "/user-stats", nil, nil, &resp); err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Stats{TotalXP: resp.TotalXP, History: make([]domain.LogEntry, 0, len(resp.History))}
	for _, row := range resp.History {
		stats.History = append(stats.History, domain.LogEntry{
			ID:              row.ID,
			Topic:           row.Topic,
			DurationMinutes: row.DurationMinutes,
			XPEarned:        row.XPEarned,
			Timestamp:       parseStamp(row.Timestamp),
		})
	}
	return stats, nil
}

func (s *HTTPStats) ResetHistory(ctx context.Context, resetXP bool) error {
	query := url.Values{"reset_xp": {strconv.FormatBool(resetXP)}}
	return s.client.Do(ctx, http.MethodDelete, "/reset-history", query, nil, nil)
}

// parseStamp accepts RFC3339 and the zone-less variant older service
// builds wrote. Unreadable stamps come back zero rather than failing
// the whole stats read.
func parseStamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if stamp, err := time.Parse(layout, raw); err == nil {
			return stamp
		}
	}
	return time.Time{}
}
