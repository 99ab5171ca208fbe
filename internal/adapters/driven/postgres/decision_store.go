package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DecisionStore = (*DecisionStore)(nil)

// DecisionStore implements driven.DecisionStore using PostgreSQL
type DecisionStore struct {
	db *DB
}

// NewDecisionStore creates a new DecisionStore
func NewDecisionStore(db *DB) *DecisionStore {
	return &DecisionStore{db: db}
}

// Upsert inserts or replaces a decision item, keyed by source_id
func (s *DecisionStore) Upsert(ctx context.Context, item *domain.DecisionItem) error {
	var profileJSON []byte
	if item.Profile != nil {
		var err error
		profileJSON, err = json.Marshal(item.Profile)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO decision_items (id, source_id, municipality, title, raw_content, external_url, decision_date, impact_profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_id) DO UPDATE SET
			title = EXCLUDED.title,
			raw_content = EXCLUDED.raw_content,
			external_url = EXCLUDED.external_url,
			decision_date = EXCLUDED.decision_date,
			impact_profile = EXCLUDED.impact_profile,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.SourceID,
		string(item.Municipality),
		item.Title,
		item.RawText,
		item.SourceURL,
		NullTime(item.DecisionDate),
		profileJSON,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

// ExistsBySourceID reports whether an item with this source id is stored
func (s *DecisionStore) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM decision_items WHERE source_id = $1)`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, sourceID).Scan(&exists)
	return exists, err
}

// GetBySourceID retrieves an item by its source id
func (s *DecisionStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.DecisionItem, error) {
	query := `
		SELECT id, source_id, municipality, title, raw_content, external_url, decision_date, impact_profile, created_at, updated_at
		FROM decision_items
		WHERE source_id = $1
	`

	return s.scanItem(s.db.QueryRowContext(ctx, query, sourceID))
}

func (s *DecisionStore) scanItem(row *sql.Row) (*domain.DecisionItem, error) {
	var item domain.DecisionItem
	var municipality string
	var decisionDate sql.NullTime
	var profileJSON []byte

	err := row.Scan(
		&item.ID,
		&item.SourceID,
		&municipality,
		&item.Title,
		&item.RawText,
		&item.SourceURL,
		&decisionDate,
		&profileJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item.Municipality = domain.Municipality(municipality)
	item.DecisionDate = TimePtr(decisionDate)

	if len(profileJSON) > 0 {
		var profile domain.ImpactProfile
		if err := json.Unmarshal(profileJSON, &profile); err != nil {
			return nil, err
		}
		item.Profile = &profile
	}

	return &item, nil
}

// ListByMunicipality returns stored items for a municipality, newest first
func (s *DecisionStore) ListByMunicipality(ctx context.Context, m domain.Municipality, limit, offset int) ([]*domain.DecisionItem, error) {
	query := `
		SELECT id, source_id, municipality, title, raw_content, external_url, decision_date, impact_profile, created_at, updated_at
		FROM decision_items
		WHERE municipality = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, string(m), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.DecisionItem
	for rows.Next() {
		var item domain.DecisionItem
		var municipality string
		var decisionDate sql.NullTime
		var profileJSON []byte

		err := rows.Scan(
			&item.ID,
			&item.SourceID,
			&municipality,
			&item.Title,
			&item.RawText,
			&item.SourceURL,
			&decisionDate,
			&profileJSON,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		item.Municipality = domain.Municipality(municipality)
		item.DecisionDate = TimePtr(decisionDate)

		if len(profileJSON) > 0 {
			var profile domain.ImpactProfile
			if err := json.Unmarshal(profileJSON, &profile); err != nil {
				return nil, err
			}
			item.Profile = &profile
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// CountByMunicipality returns the stored item count for a municipality
func (s *DecisionStore) CountByMunicipality(ctx context.Context, m domain.Municipality) (int, error) {
	query := `SELECT COUNT(*) FROM decision_items WHERE municipality = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, string(m)).Scan(&count)
	return count, err
}
