package out

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/progress/domain"
)

// SessionLog appends one experience record. The service stamps the
// time and keeps the running total.
type SessionLog interface {
	Append(ctx context.Context, entry domain.LogEntry) error
}

// Stats reads and resets the authoritative totals.
type Stats interface {
	Fetch(ctx context.Context) (domain.Stats, error)
	ResetHistory(ctx context.Context, resetXP bool) error
}
