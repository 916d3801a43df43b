package service

import (
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/registry"
)

const (
	DefaultConfidenceThreshold = 5.0
	DefaultTopContributors     = 10

	// Trust in oneself and in unknown entities. The zero default for
	// unknowns is a security invariant: fresh identities contribute and
	// receive nothing until someone explicitly trusts them.
	selfTrust    = 1.0
	unknownTrust = 0.0
)

// InferenceParams tune the whole inference pipeline.
type InferenceParams struct {
	SimilarityParams
	// ConfidenceThreshold is the total similarity weight at which an
	// inferred average is taken at face value. Below it the result blends
	// toward the entity-type default.
	ConfidenceThreshold float64
	// TopContributors caps explanation output.
	TopContributors int
}

func DefaultInferenceParams() InferenceParams {
	return InferenceParams{
		SimilarityParams:    DefaultSimilarityParams(),
		ConfidenceThreshold: DefaultConfidenceThreshold,
		TopContributors:     DefaultTopContributors,
	}
}

// Snapshot is an immutable view of the explicit trust population, built once
// per invocation and shared across any number of inferences. All engine
// computation reads only from a snapshot, which is what makes concurrent
// recomputes for different users safe without locks.
type Snapshot struct {
	Vectors  map[string]*domain.TrustVector
	Explicit map[string]map[string]float64
	Registry *registry.Registry

	// raters indexes, per target entity, the users holding an explicit
	// opinion on it. types records each rated entity's declared type.
	// Both derived from the relationships at build time.
	raters map[string][]string
	types  map[string]domain.TargetType
}

// NewSnapshot builds a snapshot from raw explicit relationships.
func NewSnapshot(rels map[string][]domain.TrustRelationship, reg *registry.Registry) *Snapshot {
	vectors, explicit := BuildTrustVectors(rels)
	raters := make(map[string][]string)
	types := make(map[string]domain.TargetType)
	for userID, values := range explicit {
		for targetID := range values {
			raters[targetID] = append(raters[targetID], userID)
		}
	}
	for _, list := range rels {
		for _, r := range list {
			if r.IsExplicit {
				types[r.TargetID] = r.TargetType
			}
		}
	}
	return &Snapshot{
		Vectors:  vectors,
		Explicit: explicit,
		Registry: reg,
		raters:   raters,
		types:    types,
	}
}

// Raters returns the users holding an explicit opinion on targetID.
func (s *Snapshot) Raters(targetID string) []string {
	return s.raters[targetID]
}

// RatedTargets returns every explicitly rated entity with its declared type.
func (s *Snapshot) RatedTargets() map[string]domain.TargetType {
	targets := make(map[string]domain.TargetType, len(s.types))
	for id, t := range s.types {
		targets[id] = t
	}
	return targets
}

// ExplicitValue returns userID's explicit trust in targetID, if any.
func (s *Snapshot) ExplicitValue(userID, targetID string) (float64, bool) {
	values, ok := s.Explicit[userID]
	if !ok {
		return 0, false
	}
	v, ok := values[targetID]
	return v, ok
}

// DefaultTrust is the fallback when no evidence exists: self-trust is total,
// listed official bots and well-known sources get bootstrap trust, and
// everything else gets zero.
func DefaultTrust(reg *registry.Registry, userID, targetID string, targetType domain.TargetType) float64 {
	switch targetType {
	case domain.TargetUser:
		if userID == targetID {
			return selfTrust
		}
	case domain.TargetBot:
		if reg != nil && reg.IsOfficialBot(targetID) {
			return registry.BootstrapTrust
		}
	case domain.TargetSource:
		if reg != nil && reg.IsWellKnownSource(targetID) {
			return registry.BootstrapTrust
		}
	}
	return unknownTrust
}

// InferTrust resolves one (user, target) pair. Decision order is strict:
//
//  1. an explicit value wins outright, confidence 1;
//  2. a user with no vector gets the type default at confidence 0;
//  3. a target nobody has rated gets the type default at confidence 0;
//  4. no similar raters (all similarities zero) gets the same;
//  5. otherwise the similarity-weighted average, blended toward the default
//     while total weight sits below the confidence threshold so sparse
//     evidence degrades smoothly instead of snapping to a noisy average.
func InferTrust(snap *Snapshot, userID, targetID string, targetType domain.TargetType, p InferenceParams) domain.InferenceResult {
	if v, ok := snap.ExplicitValue(userID, targetID); ok {
		return domain.InferenceResult{TrustValue: v, Confidence: 1, IsExplicit: true}
	}

	def := DefaultTrust(snap.Registry, userID, targetID, targetType)

	if _, ok := snap.Vectors[userID]; !ok {
		return domain.InferenceResult{TrustValue: def, IsDefaulted: true}
	}

	raters := snap.Raters(targetID)
	if len(raters) == 0 {
		return domain.InferenceResult{TrustValue: def, IsDefaulted: true}
	}

	similar := FindSimilarUsers(userID, snap.Vectors, raters, p.SimilarityParams)
	if len(similar) == 0 {
		return domain.InferenceResult{TrustValue: def, IsDefaulted: true}
	}

	return weighInference(snap, similar, targetID, def, p)
}

// weighInference applies steps 5-7: weighted average plus confidence gating.
func weighInference(snap *Snapshot, similar []domain.SimilarityResult, targetID string, def float64, p InferenceParams) domain.InferenceResult {
	avg, totalWeight := WeightedAverage(similar, func(userID string) (float64, bool) {
		return snap.ExplicitValue(userID, targetID)
	})
	if totalWeight == 0 {
		return domain.InferenceResult{TrustValue: def, IsDefaulted: true, NumSimilarUsers: len(similar)}
	}

	if totalWeight < p.ConfidenceThreshold {
		confidence := totalWeight / p.ConfidenceThreshold
		return domain.InferenceResult{
			TrustValue:      confidence*avg + (1-confidence)*def,
			Confidence:      confidence,
			NumSimilarUsers: len(similar),
		}
	}

	return domain.InferenceResult{
		TrustValue:      avg,
		Confidence:      1,
		NumSimilarUsers: len(similar),
	}
}

// InferTrustBatch amortizes inference across many targets for one user: the
// similarity ranking against the full population is computed once and
// reused, which is the expected calling convention when scoring a feed.
func InferTrustBatch(snap *Snapshot, userID string, targets map[string]domain.TargetType, p InferenceParams) map[string]domain.InferenceResult {
	results := make(map[string]domain.InferenceResult, len(targets))

	// Rank the whole population once; per-target filtering happens in the
	// weighted-average lookup, which skips non-raters.
	candidates := make([]string, 0, len(snap.Vectors))
	for id := range snap.Vectors {
		candidates = append(candidates, id)
	}
	similar := FindSimilarUsers(userID, snap.Vectors, candidates, p.SimilarityParams)

	for targetID, targetType := range targets {
		if v, ok := snap.ExplicitValue(userID, targetID); ok {
			results[targetID] = domain.InferenceResult{TrustValue: v, Confidence: 1, IsExplicit: true}
			continue
		}

		def := DefaultTrust(snap.Registry, userID, targetID, targetType)

		if _, ok := snap.Vectors[userID]; !ok {
			results[targetID] = domain.InferenceResult{TrustValue: def, IsDefaulted: true}
			continue
		}
		if len(snap.Raters(targetID)) == 0 || len(similar) == 0 {
			results[targetID] = domain.InferenceResult{TrustValue: def, IsDefaulted: true}
			continue
		}

		results[targetID] = weighInference(snap, similar, targetID, def, p)
	}

	return results
}
