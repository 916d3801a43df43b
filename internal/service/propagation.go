package service

import (
	"math"
	"sort"

	"github.com/Harshitk-cp/credence/internal/domain"
)

const (
	DefaultDampingFactor        = 0.7
	DefaultConvergenceEpsilon   = 0.01
	DefaultPropagationMaxRounds = 10

	// Flat prior the damped average blends toward.
	propagationPrior = 0.5
)

// PropagationParams tune the legacy graph propagation.
type PropagationParams struct {
	DampingFactor float64
	Epsilon       float64
	MaxIterations int
}

func DefaultPropagationParams() PropagationParams {
	return PropagationParams{
		DampingFactor: DefaultDampingFactor,
		Epsilon:       DefaultConvergenceEpsilon,
		MaxIterations: DefaultPropagationMaxRounds,
	}
}

// PropagationResult is one entity's transitively propagated trust, as seen
// from the perspective of the user whose explicit edges seeded the graph.
type PropagationResult struct {
	EntityID   string  `json:"entity_id"`
	Trust      float64 `json:"trust"`
	IsExplicit bool    `json:"is_explicit"`
}

// PropagateGraph is the legacy, transitive alternative to similarity
// diffusion: trust flows along explicit edges, each non-explicit node
// repeatedly recomputed as the damped weighted average of its incoming
// edges, until convergence or the iteration cap. It answers "what path
// explains this trust value" for debugging; it is never mixed with the
// similarity-diffusion output and is not the production inference mechanism.
func PropagateGraph(userID string, rels map[string][]domain.TrustRelationship, p PropagationParams) []PropagationResult {
	// Seed: the user's own explicit values are pinned.
	pinned := make(map[string]float64)
	for _, r := range rels[userID] {
		if r.IsExplicit {
			pinned[r.TargetID] = r.TrustValue
		}
	}

	// Incoming edges per node: rater -> target with the rater's value.
	type edge struct {
		from  string
		value float64
	}
	incoming := make(map[string][]edge)
	nodes := make(map[string]struct{})
	for raterID, list := range rels {
		for _, r := range list {
			if !r.IsExplicit {
				continue
			}
			incoming[r.TargetID] = append(incoming[r.TargetID], edge{from: raterID, value: r.TrustValue})
			nodes[r.TargetID] = struct{}{}
			nodes[raterID] = struct{}{}
		}
	}

	trust := make(map[string]float64, len(nodes))
	for id := range nodes {
		if v, ok := pinned[id]; ok {
			trust[id] = v
		} else {
			trust[id] = propagationPrior
		}
	}
	trust[userID] = selfTrust

	for i := 0; i < p.MaxIterations; i++ {
		maxDelta := 0.0
		next := make(map[string]float64, len(trust))

		for id := range nodes {
			if v, ok := pinned[id]; ok {
				next[id] = v
				continue
			}
			if id == userID {
				next[id] = selfTrust
				continue
			}

			var weightedSum, weightSum float64
			for _, e := range incoming[id] {
				// The rater's own standing weights their edge.
				w := trust[e.from]
				weightedSum += w * e.value
				weightSum += w
			}
			if weightSum == 0 {
				next[id] = trust[id]
				continue
			}

			propagated := weightedSum / weightSum
			next[id] = p.DampingFactor*propagated + (1-p.DampingFactor)*propagationPrior

			if delta := math.Abs(next[id] - trust[id]); delta > maxDelta {
				maxDelta = delta
			}
		}

		trust = next
		if maxDelta < p.Epsilon {
			break
		}
	}

	results := make([]PropagationResult, 0, len(trust))
	for id, v := range trust {
		_, explicit := pinned[id]
		results = append(results, PropagationResult{EntityID: id, Trust: v, IsExplicit: explicit})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Trust != results[j].Trust {
			return results[i].Trust > results[j].Trust
		}
		return results[i].EntityID < results[j].EntityID
	})
	return results
}
