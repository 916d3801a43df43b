package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/registry"
	"go.uber.org/zap"
)

var (
	ErrUnknownTargetType = errors.New("unknown target type")
	ErrAssertionNotFound = errors.New("assertion not found")
)

const (
	// How many unrated assertions a full network recompute scores.
	defaultAssertionBatch = 500
)

// TrustService orchestrates the inference engine over the stores: it loads
// the explicit-trust snapshot, runs batch inference, and writes inferred
// values back. All computation happens on the snapshot; the stores are only
// touched at the edges.
type TrustService struct {
	trustStore     domain.TrustStore
	assertionStore domain.AssertionStore
	registry       *registry.Registry
	logger         *zap.Logger

	Params         InferenceParams
	AssertionBatch int
}

func NewTrustService(ts domain.TrustStore, as domain.AssertionStore, reg *registry.Registry, logger *zap.Logger) *TrustService {
	return &TrustService{
		trustStore:     ts,
		assertionStore: as,
		registry:       reg,
		logger:         logger,
		Params:         DefaultInferenceParams(),
		AssertionBatch: defaultAssertionBatch,
	}
}

// Snapshot pulls the current explicit-trust population from the store.
func (s *TrustService) Snapshot(ctx context.Context) (*Snapshot, error) {
	rels, err := s.trustStore.GetAllExplicit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load explicit trust: %w", err)
	}
	return NewSnapshot(rels, s.registry), nil
}

// ComputeUserTrustNetwork recomputes the user's inferred trust for every
// entity anyone has rated plus a batch of assertions awaiting trust, and
// persists the result. Idempotent for a given snapshot; a persistence
// failure surfaces to the caller, retry policy is theirs.
func (s *TrustService) ComputeUserTrustNetwork(ctx context.Context, userID string) (map[string]float64, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	targets := snap.RatedTargets()

	// Also score assertions the content pipeline has queued for trust.
	assertions, err := s.assertionStore.ListNeedingTrust(ctx, userID, s.AssertionBatch)
	if err != nil {
		return nil, fmt.Errorf("list assertions needing trust: %w", err)
	}
	for _, a := range assertions {
		targets[a.ID] = domain.TargetAssertion
	}

	results := InferTrustBatch(snap, userID, targets, s.Params)

	// Assertions get their inferred value capped by the provenance chain.
	assertionByID := make(map[string]domain.Assertion, len(assertions))
	for _, a := range assertions {
		assertionByID[a.ID] = a
	}

	network := make(map[string]float64, len(results))
	inferred := make([]domain.InferredTrust, 0, len(results))
	for targetID, r := range results {
		if a, ok := assertionByID[targetID]; ok && !r.IsExplicit {
			r.TrustValue = ResolveProvenance(snap, userID, a, s.Params).EffectiveTrust
		}
		network[targetID] = r.TrustValue
		if r.IsExplicit {
			continue
		}
		var contributors []string
		if !r.IsDefaulted {
			explanation := ExplainInference(snap, userID, targetID, targets[targetID], s.Params)
			for _, c := range explanation.Contributors {
				contributors = append(contributors, c.UserID)
			}
		}
		inferred = append(inferred, domain.InferredTrust{
			TargetID:     targetID,
			TargetType:   targets[targetID],
			Value:        r.TrustValue,
			Confidence:   r.Confidence,
			Contributors: contributors,
		})
	}

	if err := s.trustStore.PersistInferred(ctx, userID, inferred); err != nil {
		return nil, fmt.Errorf("persist inferred trust: %w", err)
	}

	s.logger.Info("trust network recomputed",
		zap.String("user_id", userID),
		zap.Int("targets", len(targets)),
		zap.Int("inferred", len(inferred)))

	return network, nil
}

// GetTrustForAssertion returns the provenance-capped effective trust for one
// assertion.
func (s *TrustService) GetTrustForAssertion(ctx context.Context, userID, assertionID string) (float64, error) {
	a, err := s.assertionStore.GetByID(ctx, assertionID)
	if err != nil {
		return 0, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return ResolveProvenance(snap, userID, *a, s.Params).EffectiveTrust, nil
}

// ComputeAssertionTrustWithProvenance returns the full per-link breakdown.
func (s *TrustService) ComputeAssertionTrustWithProvenance(ctx context.Context, userID string, a domain.Assertion) (domain.ProvenanceTrust, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.ProvenanceTrust{}, err
	}
	return ResolveProvenance(snap, userID, a, s.Params), nil
}

// ScoreAssertions resolves effective trust for a batch of assertions against
// a single snapshot.
func (s *TrustService) ScoreAssertions(ctx context.Context, userID string, assertions []domain.Assertion) ([]domain.ScoredAssertion, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredAssertion, 0, len(assertions))
	for _, a := range assertions {
		pt := ResolveProvenance(snap, userID, a, s.Params)
		scored = append(scored, domain.ScoredAssertion{Assertion: a, EffectiveTrust: pt.EffectiveTrust})
	}
	return scored, nil
}

// FilterByTrust drops assertions whose effective trust sits below threshold.
func (s *TrustService) FilterByTrust(ctx context.Context, userID string, assertions []domain.Assertion, threshold float64) ([]domain.ScoredAssertion, error) {
	scored, err := s.ScoreAssertions(ctx, userID, assertions)
	if err != nil {
		return nil, err
	}
	kept := scored[:0]
	for _, sa := range scored {
		if sa.EffectiveTrust >= threshold {
			kept = append(kept, sa)
		}
	}
	return kept, nil
}

// SortScoredAssertions orders by effective trust descending, ties broken by
// id so output is stable.
func SortScoredAssertions(scored []domain.ScoredAssertion) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].EffectiveTrust != scored[j].EffectiveTrust {
			return scored[i].EffectiveTrust > scored[j].EffectiveTrust
		}
		return scored[i].ID < scored[j].ID
	})
}

// SortByTrust orders assertions by effective trust descending.
func (s *TrustService) SortByTrust(ctx context.Context, userID string, assertions []domain.Assertion) ([]domain.ScoredAssertion, error) {
	scored, err := s.ScoreAssertions(ctx, userID, assertions)
	if err != nil {
		return nil, err
	}
	SortScoredAssertions(scored)
	return scored, nil
}

// GetTrustExplanation reconstructs contributor detail for one inference.
func (s *TrustService) GetTrustExplanation(ctx context.Context, userID, entityID string, targetType domain.TargetType) (*domain.TrustExplanation, error) {
	if !domain.ValidTargetType(string(targetType)) {
		return nil, ErrUnknownTargetType
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	explanation := ExplainInference(snap, userID, entityID, targetType, s.Params)
	return &explanation, nil
}

// InferOne resolves a single (user, target) pair on a fresh snapshot.
func (s *TrustService) InferOne(ctx context.Context, userID, targetID string, targetType domain.TargetType) (*domain.InferenceResult, error) {
	if !domain.ValidTargetType(string(targetType)) {
		return nil, ErrUnknownTargetType
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	r := InferTrust(snap, userID, targetID, targetType, s.Params)
	return &r, nil
}

// Controversy reports population disagreement for entities of one type.
func (s *TrustService) Controversy(ctx context.Context, targetType domain.TargetType, minUsers int) (*domain.ControversyReport, error) {
	if !domain.ValidTargetType(string(targetType)) {
		return nil, ErrUnknownTargetType
	}
	if minUsers < minOpinions {
		minUsers = minOpinions
	}
	values, err := s.trustStore.GetValuesByTarget(ctx, targetType, minUsers)
	if err != nil {
		return nil, fmt.Errorf("load trust values: %w", err)
	}
	report := ScoreControversy(values)
	return &report, nil
}

// ExplainPropagation runs the legacy transitive propagation for debugging.
// Its output is path-based and must never be blended with InferTrust's.
func (s *TrustService) ExplainPropagation(ctx context.Context, userID string) ([]PropagationResult, error) {
	rels, err := s.trustStore.GetAllExplicit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load explicit trust: %w", err)
	}
	return PropagateGraph(userID, rels, DefaultPropagationParams()), nil
}
