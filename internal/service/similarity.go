package service

import (
	"math"
	"sort"

	"github.com/Harshitk-cp/credence/internal/domain"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultMinOverlap     = 3
	DefaultSigma          = 0.3
	DefaultMaxComparisons = 1000
)

// SimilarityParams tune the similarity search.
type SimilarityParams struct {
	// MinOverlap is the minimum number of co-rated entities before a
	// similarity judgment is allowed at all.
	MinOverlap int
	// Sigma controls the Gaussian diffusion radius: larger lets more
	// distant users influence the result, smaller narrows it to
	// near-identical users.
	Sigma float64
	// MaxComparisons caps the candidate pool. A known approximation:
	// exact top-k at scale would need an ANN index.
	MaxComparisons int
}

func DefaultSimilarityParams() SimilarityParams {
	return SimilarityParams{
		MinOverlap:     DefaultMinOverlap,
		Sigma:          DefaultSigma,
		MaxComparisons: DefaultMaxComparisons,
	}
}

// CosineSimilarity computes cosine similarity between two sparse trust
// vectors, restricted to the entities present in both. Fewer than minOverlap
// shared entities yields 0: two users who co-rated only a couple of things
// cannot support a similarity judgment, no matter how aligned those ratings
// are. Returns the similarity and the overlap count.
func CosineSimilarity(a, b *domain.TrustVector, minOverlap int) (float64, int) {
	if a == nil || b == nil {
		return 0, 0
	}

	// Iterate the smaller map.
	small, large := a.Values, b.Values
	if len(large) < len(small) {
		small, large = large, small
	}

	va := make([]float64, 0, len(small))
	vb := make([]float64, 0, len(small))
	for id, x := range small {
		if y, ok := large[id]; ok {
			va = append(va, x)
			vb = append(vb, y)
		}
	}

	overlap := len(va)
	if overlap < minOverlap {
		return 0, overlap
	}

	normA := floats.Norm(va, 2)
	normB := floats.Norm(vb, 2)
	if normA == 0 || normB == 0 {
		return 0, overlap
	}

	return floats.Dot(va, vb) / (normA * normB), overlap
}

// GaussianKernel converts a cosine similarity into a diffusion weight. For
// unit vectors the squared Euclidean distance is 2(1-cos), so the kernel is
// exp(-2(1-cos)/sigma^2).
func GaussianKernel(cosine, sigma float64) float64 {
	d2 := 2 * (1 - cosine)
	return math.Exp(-d2 / (sigma * sigma))
}

// FindSimilarUsers ranks candidate users by similarity to userID, excluding
// the user themselves and anyone with zero similarity. The candidate pool is
// truncated at MaxComparisons before any comparison happens.
func FindSimilarUsers(userID string, vectors map[string]*domain.TrustVector, candidates []string, p SimilarityParams) []domain.SimilarityResult {
	own := vectors[userID]
	if own == nil {
		return nil
	}

	if len(candidates) > p.MaxComparisons {
		candidates = candidates[:p.MaxComparisons]
	}

	results := make([]domain.SimilarityResult, 0, len(candidates))
	for _, id := range candidates {
		if id == userID {
			continue
		}
		sim, overlap := CosineSimilarity(own, vectors[id], p.MinOverlap)
		if sim == 0 {
			continue
		}
		results = append(results, domain.SimilarityResult{
			UserID:       id,
			Similarity:   sim,
			Weight:       GaussianKernel(sim, p.Sigma),
			OverlapCount: overlap,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	return results
}

// WeightedAverage computes the kernel-weighted mean of similar users' trust
// values for a target. Contributors without an opinion on the target are
// skipped. The returned total weight is the raw evidence signal that
// confidence gating thresholds against.
func WeightedAverage(similar []domain.SimilarityResult, lookup func(userID string) (float64, bool)) (avg, totalWeight float64) {
	var sum float64
	for _, s := range similar {
		value, ok := lookup(s.UserID)
		if !ok {
			continue
		}
		sum += s.Weight * value
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0, 0
	}
	return sum / totalWeight, totalWeight
}
