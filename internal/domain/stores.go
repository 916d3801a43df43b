package domain

import "context"

// TrustStore persists trust relationships. The engine reads explicit records
// as a snapshot and writes inferred values back; it never mutates explicit
// records on its own.
type TrustStore interface {
	Upsert(ctx context.Context, r *TrustRelationship) error
	Delete(ctx context.Context, userID, targetID string) error
	GetExplicit(ctx context.Context, userID, targetID string) (*TrustRelationship, error)

	// GetAllExplicit returns every user's explicit relationships, keyed by
	// user id. This is the snapshot the whole inference pass runs on.
	GetAllExplicit(ctx context.Context) (map[string][]TrustRelationship, error)

	// GetValuesByTarget returns, per target entity of the given type, all
	// trust values held across users. minUsers filters out entities with
	// too few opinions to matter.
	GetValuesByTarget(ctx context.Context, targetType TargetType, minUsers int) (map[string][]float64, error)

	// PersistInferred replaces the user's inferred (non-explicit) records
	// with the given batch. Explicit records are left untouched.
	PersistInferred(ctx context.Context, userID string, inferred []InferredTrust) error
}

// AssertionStore gives the engine read access to the content pipeline's
// assertions and their provenance fields.
type AssertionStore interface {
	GetByID(ctx context.Context, id string) (*Assertion, error)
	ListNeedingTrust(ctx context.Context, userID string, limit int) ([]Assertion, error)
	Create(ctx context.Context, a *Assertion) error
}
