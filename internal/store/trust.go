package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrustStore struct {
	db *pgxpool.Pool
}

func NewTrustStore(db *pgxpool.Pool) *TrustStore {
	return &TrustStore{db: db}
}

func (s *TrustStore) Upsert(ctx context.Context, r *domain.TrustRelationship) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO trust_relationships (user_id, target_id, target_type, trust_value, is_explicit, propagated_from, confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, target_id) DO UPDATE SET
		   target_type = EXCLUDED.target_type,
		   trust_value = EXCLUDED.trust_value,
		   is_explicit = EXCLUDED.is_explicit,
		   propagated_from = EXCLUDED.propagated_from,
		   confidence = EXCLUDED.confidence,
		   updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		r.UserID, r.TargetID, r.TargetType, r.TrustValue, r.IsExplicit, r.PropagatedFrom, r.Confidence,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (s *TrustStore) Delete(ctx context.Context, userID, targetID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM trust_relationships WHERE user_id = $1 AND target_id = $2`,
		userID, targetID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TrustStore) GetExplicit(ctx context.Context, userID, targetID string) (*domain.TrustRelationship, error) {
	r := &domain.TrustRelationship{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, target_id, target_type, trust_value, is_explicit, propagated_from, confidence, created_at, updated_at
		 FROM trust_relationships
		 WHERE user_id = $1 AND target_id = $2 AND is_explicit = TRUE`,
		userID, targetID,
	).Scan(&r.ID, &r.UserID, &r.TargetID, &r.TargetType, &r.TrustValue, &r.IsExplicit, &r.PropagatedFrom, &r.Confidence, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *TrustStore) GetAllExplicit(ctx context.Context) (map[string][]domain.TrustRelationship, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, target_id, target_type, trust_value, is_explicit, propagated_from, confidence, created_at, updated_at
		 FROM trust_relationships WHERE is_explicit = TRUE`,
	)
	if err != nil {
		return nil, fmt.Errorf("query explicit trust: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string][]domain.TrustRelationship)
	for rows.Next() {
		var r domain.TrustRelationship
		if err := rows.Scan(&r.ID, &r.UserID, &r.TargetID, &r.TargetType, &r.TrustValue, &r.IsExplicit, &r.PropagatedFrom, &r.Confidence, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	return byUser, rows.Err()
}

// GetValuesByTarget collects explicit trust values per entity for targets
// rated by at least minUsers distinct users. Cached inferred rows are
// excluded so diffusion output cannot feed back into disagreement stats.
func (s *TrustStore) GetValuesByTarget(ctx context.Context, targetType domain.TargetType, minUsers int) (map[string][]float64, error) {
	rows, err := s.db.Query(ctx,
		`SELECT target_id, trust_value
		 FROM trust_relationships
		 WHERE target_type = $1
		   AND is_explicit = TRUE
		   AND target_id IN (
		     SELECT target_id FROM trust_relationships
		     WHERE target_type = $1 AND is_explicit = TRUE
		     GROUP BY target_id HAVING COUNT(DISTINCT user_id) >= $2
		   )`,
		targetType, minUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("query trust values by target: %w", err)
	}
	defer rows.Close()

	values := make(map[string][]float64)
	for rows.Next() {
		var targetID string
		var value float64
		if err := rows.Scan(&targetID, &value); err != nil {
			return nil, err
		}
		values[targetID] = append(values[targetID], value)
	}
	return values, rows.Err()
}

// PersistInferred replaces the user's inferred rows in one transaction.
// Explicit rows are untouched; the unique (user_id, target_id) index plus
// the is_explicit guard on the insert keeps inference from shadowing an
// explicit value that arrived between snapshot and write.
func (s *TrustStore) PersistInferred(ctx context.Context, userID string, inferred []domain.InferredTrust) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin persist inferred: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM trust_relationships WHERE user_id = $1 AND is_explicit = FALSE`,
		userID,
	); err != nil {
		return fmt.Errorf("clear inferred rows: %w", err)
	}

	for _, inf := range inferred {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trust_relationships (user_id, target_id, target_type, trust_value, is_explicit, propagated_from, confidence)
			 VALUES ($1, $2, $3, $4, FALSE, $5, $6)
			 ON CONFLICT (user_id, target_id) DO NOTHING`,
			userID, inf.TargetID, inf.TargetType, inf.Value, inf.Contributors, inf.Confidence,
		); err != nil {
			return fmt.Errorf("insert inferred row: %w", err)
		}
	}

	return tx.Commit(ctx)
}
