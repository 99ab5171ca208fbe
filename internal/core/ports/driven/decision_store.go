package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// DecisionStore persists decision items. Upsert is keyed by source_id so
// re-ingesting the same item is a no-op, never a duplicate insert. The set
// of stored source ids doubles as the sync dedup index.
type DecisionStore interface {
	// Upsert inserts or replaces the item identified by its SourceID.
	Upsert(ctx context.Context, item *domain.DecisionItem) error

	// ExistsBySourceID reports whether an item with this source id is
	// already stored.
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)

	// GetBySourceID retrieves a stored item, or domain.ErrNotFound.
	GetBySourceID(ctx context.Context, sourceID string) (*domain.DecisionItem, error)

	// ListByMunicipality returns stored items for one municipality,
	// newest first.
	ListByMunicipality(ctx context.Context, m domain.Municipality, limit, offset int) ([]*domain.DecisionItem, error)

	// CountByMunicipality returns the stored item count for one municipality.
	CountByMunicipality(ctx context.Context, m domain.Municipality) (int, error)
}
