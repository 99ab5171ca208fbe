package driven

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// SourceAdapter translates one upstream publication format (HTML agenda,
// issue API, RSS feed) into the pipeline's common intake shape. Adapters
// are pure data sources: they know nothing about prior runs or dedup.
type SourceAdapter interface {
	// Municipality returns the municipality this adapter serves.
	Municipality() domain.Municipality

	// ListItems lists up to limit candidate decision items in listing
	// order. ListItems is the only place allowed to paginate. A malformed
	// entry is skipped, not fatal to the listing; a wholly unreachable
	// source returns an error wrapping domain.ErrSourceUnavailable.
	ListItems(ctx context.Context, limit int) ([]domain.SourceItem, error)

	// FetchDetail fetches the full content of one listed item. Missing
	// optional fields (proposer, date) are tolerated. Network failure or
	// a non-2xx response returns an error wrapping domain.ErrItemFetchFailed
	// for that single item.
	FetchDetail(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error)
}

// AdapterRegistry resolves the adapter for a municipality.
type AdapterRegistry interface {
	// Get returns the adapter for a municipality, or
	// domain.ErrUnknownMunicipality if none is registered.
	Get(municipality domain.Municipality) (SourceAdapter, error)

	// Municipalities returns every registered municipality.
	Municipalities() []domain.Municipality
}
