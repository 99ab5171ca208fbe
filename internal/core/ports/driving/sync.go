package driving

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// SyncService is the scheduler-facing entry point: one operation per
// municipality, invoked by cron or an equivalent external scheduler.
type SyncService interface {
	// RunSync ingests one municipality's new decisions end to end and
	// reports what happened. Item-level failures are summarised, never
	// propagated.
	RunSync(ctx context.Context, m domain.Municipality) (*domain.RunSummary, error)

	// RunAll runs every registered municipality in turn. One source's
	// failure never aborts a sibling's run.
	RunAll(ctx context.Context) ([]*domain.RunSummary, error)
}
