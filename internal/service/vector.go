package service

import "github.com/Harshitk-cp/credence/internal/domain"

// BuildTrustVectors turns raw explicit trust relationships into one sparse
// vector per user. Only explicit records contribute: inferred values feeding
// back into vectors would let propagated trust amplify itself, which is the
// feedback loop Sybil clusters would exploit.
//
// Returns the vectors plus an explicit-value lookup, userID -> targetID ->
// value, used for the explicit-override check and for weighted averaging.
func BuildTrustVectors(rels map[string][]domain.TrustRelationship) (map[string]*domain.TrustVector, map[string]map[string]float64) {
	vectors := make(map[string]*domain.TrustVector)
	explicit := make(map[string]map[string]float64)

	for userID, list := range rels {
		for _, r := range list {
			if !r.IsExplicit {
				continue
			}
			v, ok := vectors[userID]
			if !ok {
				v = &domain.TrustVector{UserID: userID, Values: make(map[string]float64)}
				vectors[userID] = v
				explicit[userID] = make(map[string]float64)
			}
			v.Values[r.TargetID] = r.TrustValue
			explicit[userID][r.TargetID] = r.TrustValue
		}
	}

	return vectors, explicit
}
