package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// Enricher sends a decision's normalized text to a generative text model
// under a fixed output contract and returns the structured profile.
// Output that cannot be parsed after one repair attempt fails with an
// error wrapping domain.ErrEnrichmentParse; a failed item is never stored
// half-populated.
type Enricher interface {
	Enrich(ctx context.Context, item *domain.DecisionItem) (*domain.ImpactProfile, error)

	// Model returns the model name being used.
	Model() string
}
