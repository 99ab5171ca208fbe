package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// FlipStore persists flip records. Records are append-only; inserting the
// same (actor, decision, axis) combination twice is a no-op, so re-running
// detection never duplicates a record for the same cause.
type FlipStore interface {
	// Insert stores a record. Returns (false, nil) when the record already
	// exists for this (actor, decision, axis).
	Insert(ctx context.Context, rec *domain.FlipRecord) (bool, error)

	// ListByDecision returns records for one decision item.
	ListByDecision(ctx context.Context, decisionItemID string) ([]*domain.FlipRecord, error)

	// CountByMunicipality returns the number of records whose decision
	// belongs to a municipality.
	CountByMunicipality(ctx context.Context, m domain.Municipality) (int, error)
}
