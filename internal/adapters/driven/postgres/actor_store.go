package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ActorStore = (*ActorStore)(nil)

// ActorStore implements driven.ActorStore using PostgreSQL.
// The actor_fingerprints table is populated outside this pipeline.
type ActorStore struct {
	db *DB
}

// NewActorStore creates a new ActorStore
func NewActorStore(db *DB) *ActorStore {
	return &ActorStore{db: db}
}

// ListByMunicipality returns every known actor fingerprint for a municipality
func (s *ActorStore) ListByMunicipality(ctx context.Context, m domain.Municipality) ([]*domain.ActorFingerprint, error) {
	query := `
		SELECT id, municipality, actor_name, ideological_vector
		FROM actor_fingerprints
		WHERE municipality = $1
		ORDER BY actor_name
	`

	rows, err := s.db.QueryContext(ctx, query, string(m))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actors []*domain.ActorFingerprint
	for rows.Next() {
		var actor domain.ActorFingerprint
		var municipality string
		var vectorJSON []byte

		err := rows.Scan(
			&actor.ID,
			&municipality,
			&actor.ActorName,
			&vectorJSON,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(vectorJSON, &actor.Vector); err != nil {
			return nil, fmt.Errorf("decode ideological_vector for actor %s: %w", actor.ID, err)
		}

		actor.Municipality = domain.Municipality(municipality)
		actors = append(actors, &actor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return actors, nil
}
