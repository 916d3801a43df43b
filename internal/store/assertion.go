package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssertionStore struct {
	db *pgxpool.Pool
}

func NewAssertionStore(db *pgxpool.Pool) *AssertionStore {
	return &AssertionStore{db: db}
}

func (s *AssertionStore) Create(ctx context.Context, a *domain.Assertion) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO assertions (id, source_id, imported_by, title)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 RETURNING created_at`,
		a.ID, a.SourceID, a.ImportedBy, a.Title,
	).Scan(&a.CreatedAt)
}

func (s *AssertionStore) GetByID(ctx context.Context, id string) (*domain.Assertion, error) {
	a := &domain.Assertion{}
	var importedBy *string
	err := s.db.QueryRow(ctx,
		`SELECT id, source_id, imported_by, title, created_at
		 FROM assertions WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.SourceID, &importedBy, &a.Title, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if importedBy != nil {
		a.ImportedBy = *importedBy
	}
	return a, nil
}

// ListNeedingTrust returns assertions the given user holds no trust row for
// yet, newest first.
func (s *AssertionStore) ListNeedingTrust(ctx context.Context, userID string, limit int) ([]domain.Assertion, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(ctx,
		`SELECT a.id, a.source_id, a.imported_by, a.title, a.created_at
		 FROM assertions a
		 LEFT JOIN trust_relationships t
		   ON t.target_id = a.id AND t.user_id = $1
		 WHERE t.id IS NULL
		 ORDER BY a.created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list assertions needing trust: %w", err)
	}
	defer rows.Close()

	var assertions []domain.Assertion
	for rows.Next() {
		var a domain.Assertion
		var importedBy *string
		if err := rows.Scan(&a.ID, &a.SourceID, &importedBy, &a.Title, &a.CreatedAt); err != nil {
			return nil, err
		}
		if importedBy != nil {
			a.ImportedBy = *importedBy
		}
		assertions = append(assertions, a)
	}
	return assertions, rows.Err()
}
