package service

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
)

func TestExplainInference_Contributors(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob":   threeRatings("bob", "t1", 0.6),
		"carol": threeRatings("carol", "t1", 0.8),
	})

	explanation := ExplainInference(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())

	if explanation.IsExplicit || explanation.IsDefaulted {
		t.Fatalf("expected inferred explanation, got %+v", explanation)
	}
	if len(explanation.Contributors) != 2 {
		t.Fatalf("got %d contributors, want 2", len(explanation.Contributors))
	}

	var percentSum float64
	for _, c := range explanation.Contributors {
		percentSum += c.ContributionPercent
	}
	if !floatEq(percentSum, 100) {
		t.Errorf("contribution percents sum to %f, want 100", percentSum)
	}

	if explanation.Contributors[0].ContributionPercent < explanation.Contributors[1].ContributionPercent {
		t.Error("contributors not sorted by contribution descending")
	}

	// The explanation carries the same headline numbers as the inference.
	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if !floatEq(explanation.TrustValue, r.TrustValue) || !floatEq(explanation.Confidence, r.Confidence) {
		t.Errorf("explanation %+v diverges from inference %+v", explanation, r)
	}
}

func TestExplainInference_TopNTruncation(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
	}
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		rels[id] = threeRatings(id, "t1", 0.7)
	}
	snap := snapshotOf(rels)

	p := DefaultInferenceParams()
	p.TopContributors = 3

	explanation := ExplainInference(snap, "alice", "t1", domain.TargetAssertion, p)
	if len(explanation.Contributors) != 3 {
		t.Errorf("got %d contributors, want 3 after truncation", len(explanation.Contributors))
	}
}

func TestExplainInference_ExplicitHasNoContributors(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": {explicitRel("alice", "t1", domain.TargetAssertion, 0.9)},
	})

	explanation := ExplainInference(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if !explanation.IsExplicit {
		t.Fatal("expected explicit explanation")
	}
	if len(explanation.Contributors) != 0 {
		t.Errorf("explicit value should have no contributors, got %d", len(explanation.Contributors))
	}
	if !floatEq(explanation.TrustValue, 0.9) {
		t.Errorf("trust = %f, want 0.9", explanation.TrustValue)
	}
}

func TestExplainInference_DefaultedHasNoContributors(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{})

	explanation := ExplainInference(snap, "alice", "nobody", domain.TargetUser, DefaultInferenceParams())
	if !explanation.IsDefaulted {
		t.Fatal("expected defaulted explanation")
	}
	if len(explanation.Contributors) != 0 {
		t.Errorf("defaulted value should have no contributors, got %d", len(explanation.Contributors))
	}
}
