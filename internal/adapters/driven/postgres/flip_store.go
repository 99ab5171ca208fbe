package postgres

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FlipStore = (*FlipStore)(nil)

// FlipStore implements driven.FlipStore using PostgreSQL
type FlipStore struct {
	db *DB
}

// NewFlipStore creates a new FlipStore
func NewFlipStore(db *DB) *FlipStore {
	return &FlipStore{db: db}
}

// Insert stores a flip record. The (actor_id, decision_item_id, axis)
// uniqueness constraint makes re-detection a no-op: a duplicate insert
// returns (false, nil) instead of a second row.
func (s *FlipStore) Insert(ctx context.Context, rec *domain.FlipRecord) (bool, error) {
	query := `
		INSERT INTO flip_records (id, actor_id, actor_name, decision_item_id, axis, fingerprint_value, impact_value, discrepancy, description, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (actor_id, decision_item_id, axis) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.ActorID,
		rec.ActorName,
		rec.DecisionItemID,
		string(rec.Axis),
		rec.FingerprintValue,
		rec.ImpactValue,
		rec.Discrepancy,
		rec.Description,
		rec.DetectedAt,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// ListByDecision returns flip records for one decision item
func (s *FlipStore) ListByDecision(ctx context.Context, decisionItemID string) ([]*domain.FlipRecord, error) {
	query := `
		SELECT id, actor_id, actor_name, decision_item_id, axis, fingerprint_value, impact_value, discrepancy, description, detected_at
		FROM flip_records
		WHERE decision_item_id = $1
		ORDER BY detected_at, axis
	`

	rows, err := s.db.QueryContext(ctx, query, decisionItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.FlipRecord
	for rows.Next() {
		var rec domain.FlipRecord
		var axis string

		err := rows.Scan(
			&rec.ID,
			&rec.ActorID,
			&rec.ActorName,
			&rec.DecisionItemID,
			&axis,
			&rec.FingerprintValue,
			&rec.ImpactValue,
			&rec.Discrepancy,
			&rec.Description,
			&rec.DetectedAt,
		)
		if err != nil {
			return nil, err
		}

		rec.Axis = domain.Axis(axis)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountByMunicipality returns the number of flip records whose decision
// item belongs to a municipality
func (s *FlipStore) CountByMunicipality(ctx context.Context, m domain.Municipality) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM flip_records f
		JOIN decision_items d ON d.id = f.decision_item_id
		WHERE d.municipality = $1
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, string(m)).Scan(&count)
	return count, err
}
