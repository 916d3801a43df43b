package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetType identifies what kind of entity a trust value points at.
// The default-trust policy switches on this exhaustively.
type TargetType string

const (
	TargetUser      TargetType = "user"
	TargetSource    TargetType = "source"
	TargetBot       TargetType = "bot"
	TargetAssertion TargetType = "assertion"
	TargetGroup     TargetType = "group"
)

func ValidTargetType(s string) bool {
	switch TargetType(s) {
	case TargetUser, TargetSource, TargetBot, TargetAssertion, TargetGroup:
		return true
	}
	return false
}

// TrustRelationship is one user's trust value for one entity, either stated
// directly by the user (IsExplicit) or inferred from similar users. Explicit
// records always win over inference for the same (UserID, TargetID) pair.
type TrustRelationship struct {
	ID             uuid.UUID  `json:"id"`
	UserID         string     `json:"user_id"`
	TargetID       string     `json:"target_id"`
	TargetType     TargetType `json:"target_type"`
	TrustValue     float64    `json:"trust_value"`
	IsExplicit     bool       `json:"is_explicit"`
	PropagatedFrom []string   `json:"propagated_from,omitempty"`
	Confidence     float64    `json:"confidence"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TrustVector is a user's sparse map from entity id to explicit trust value.
// Built fresh from explicit records on every inference pass; never persisted.
type TrustVector struct {
	UserID string
	Values map[string]float64
}

// SimilarityResult is one candidate user's similarity to the querying user.
// Transient, computed per query.
type SimilarityResult struct {
	UserID       string  `json:"user_id"`
	Similarity   float64 `json:"similarity"`
	Weight       float64 `json:"weight"`
	OverlapCount int     `json:"overlap_count"`
}

// InferenceResult is the outcome of one (user, target) trust inference.
type InferenceResult struct {
	TrustValue      float64 `json:"trust_value"`
	Confidence      float64 `json:"confidence"`
	NumSimilarUsers int     `json:"num_similar_users"`
	IsExplicit      bool    `json:"is_explicit"`
	IsDefaulted     bool    `json:"is_defaulted"`
}

// Contributor records how much one similar user contributed to an inferred
// trust value. Used for explanations and for the PropagatedFrom metadata on
// persisted inferred relationships.
type Contributor struct {
	UserID              string  `json:"user_id"`
	Similarity          float64 `json:"similarity"`
	TrustValue          float64 `json:"trust_value"`
	ContributionPercent float64 `json:"contribution_percent"`
}

// TrustExplanation reconstructs where an inferred value came from.
type TrustExplanation struct {
	TrustValue   float64       `json:"trust_value"`
	Confidence   float64       `json:"confidence"`
	IsExplicit   bool          `json:"is_explicit"`
	IsDefaulted  bool          `json:"is_defaulted"`
	Contributors []Contributor `json:"contributors"`
}

// InferredTrust is what gets written back to the store after a network
// recompute: the value, how much evidence backed it, and who contributed.
type InferredTrust struct {
	TargetID     string
	TargetType   TargetType
	Value        float64
	Confidence   float64
	Contributors []string
}
