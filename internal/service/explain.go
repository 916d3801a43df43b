package service

import (
	"sort"

	"github.com/Harshitk-cp/credence/internal/domain"
)

// ExplainInference reruns the similarity search and weighted-average
// bookkeeping for one (user, target) pair, keeping per-contributor detail:
// who was similar, what they thought, and what share of the final value they
// account for. Used for UI transparency and to fill PropagatedFrom on
// persisted inferred relationships.
func ExplainInference(snap *Snapshot, userID, targetID string, targetType domain.TargetType, p InferenceParams) domain.TrustExplanation {
	result := InferTrust(snap, userID, targetID, targetType, p)

	explanation := domain.TrustExplanation{
		TrustValue:  result.TrustValue,
		Confidence:  result.Confidence,
		IsExplicit:  result.IsExplicit,
		IsDefaulted: result.IsDefaulted,
	}
	if result.IsExplicit || result.IsDefaulted {
		return explanation
	}

	similar := FindSimilarUsers(userID, snap.Vectors, snap.Raters(targetID), p.SimilarityParams)

	var totalWeight float64
	contributors := make([]domain.Contributor, 0, len(similar))
	for _, s := range similar {
		value, ok := snap.ExplicitValue(s.UserID, targetID)
		if !ok {
			continue
		}
		// ContributionPercent temporarily holds the raw kernel weight
		// until the normalization pass below.
		contributors = append(contributors, domain.Contributor{
			UserID:              s.UserID,
			Similarity:          s.Similarity,
			TrustValue:          value,
			ContributionPercent: s.Weight,
		})
		totalWeight += s.Weight
	}

	if totalWeight > 0 {
		for i := range contributors {
			contributors[i].ContributionPercent = contributors[i].ContributionPercent / totalWeight * 100
		}
	}

	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].ContributionPercent > contributors[j].ContributionPercent
	})
	if p.TopContributors > 0 && len(contributors) > p.TopContributors {
		contributors = contributors[:p.TopContributors]
	}

	explanation.Contributors = contributors
	return explanation
}
