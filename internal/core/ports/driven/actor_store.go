package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// ActorStore reads actor fingerprints. Fingerprints are owned and updated
// outside this pipeline; the pipeline only queries them.
type ActorStore interface {
	// ListByMunicipality returns every known actor for a municipality.
	ListByMunicipality(ctx context.Context, m domain.Municipality) ([]*domain.ActorFingerprint, error)
}
