package service

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/registry"
)

func explicitRel(userID, targetID string, targetType domain.TargetType, value float64) domain.TrustRelationship {
	return domain.TrustRelationship{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		TrustValue: value,
		IsExplicit: true,
	}
}

// threeRatings gives a user the shared rating pattern the similarity tests
// pivot on: three co-rated entities plus an optional opinion on the target.
func threeRatings(userID string, target string, targetValue float64) []domain.TrustRelationship {
	rels := []domain.TrustRelationship{
		explicitRel(userID, "e1", domain.TargetSource, 0.9),
		explicitRel(userID, "e2", domain.TargetSource, 0.8),
		explicitRel(userID, "e3", domain.TargetSource, 0.7),
	}
	if target != "" {
		rels = append(rels, explicitRel(userID, target, domain.TargetAssertion, targetValue))
	}
	return rels
}

func snapshotOf(rels map[string][]domain.TrustRelationship) *Snapshot {
	return NewSnapshot(rels, registry.New(nil, nil))
}

func TestInferTrust_ExplicitWins(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": append(threeRatings("alice", "", 0), explicitRel("alice", "t1", domain.TargetAssertion, 0.25)),
		"bob":   threeRatings("bob", "t1", 0.9),
		"carol": threeRatings("carol", "t1", 0.9),
	}
	snap := snapshotOf(rels)

	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if !r.IsExplicit {
		t.Fatal("expected explicit result")
	}
	if !floatEq(r.TrustValue, 0.25) {
		t.Errorf("trust = %f, want 0.25 regardless of population", r.TrustValue)
	}
	if r.Confidence != 1 {
		t.Errorf("confidence = %f, want 1.0", r.Confidence)
	}
}

func TestInferTrust_SelfTrust(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{})

	r := InferTrust(snap, "alice", "alice", domain.TargetUser, DefaultInferenceParams())
	if !floatEq(r.TrustValue, 1.0) {
		t.Errorf("self trust = %f, want 1.0", r.TrustValue)
	}
	if !r.IsDefaulted {
		t.Error("self trust with no data should be a default")
	}
}

func TestInferTrust_UnknownDefaultsToZero(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
	})

	for _, tt := range []struct {
		targetID   string
		targetType domain.TargetType
	}{
		{"stranger", domain.TargetUser},
		{"unknown-source", domain.TargetSource},
		{"unknown-bot", domain.TargetBot},
		{"some-assertion", domain.TargetAssertion},
		{"some-group", domain.TargetGroup},
	} {
		r := InferTrust(snap, "alice", tt.targetID, tt.targetType, DefaultInferenceParams())
		if r.TrustValue != 0 {
			t.Errorf("%s/%s: trust = %f, want 0", tt.targetType, tt.targetID, r.TrustValue)
		}
		if r.Confidence != 0 {
			t.Errorf("%s/%s: confidence = %f, want 0", tt.targetType, tt.targetID, r.Confidence)
		}
		if !r.IsDefaulted {
			t.Errorf("%s/%s: expected defaulted result", tt.targetType, tt.targetID)
		}
	}
}

func TestInferTrust_BootstrapDefaults(t *testing.T) {
	reg := registry.New([]string{"bot-official"}, []string{"source-known"})
	snap := NewSnapshot(map[string][]domain.TrustRelationship{}, reg)

	p := DefaultInferenceParams()
	if r := InferTrust(snap, "alice", "bot-official", domain.TargetBot, p); !floatEq(r.TrustValue, 0.5) {
		t.Errorf("official bot trust = %f, want 0.5", r.TrustValue)
	}
	if r := InferTrust(snap, "alice", "source-known", domain.TargetSource, p); !floatEq(r.TrustValue, 0.5) {
		t.Errorf("well-known source trust = %f, want 0.5", r.TrustValue)
	}
	// Listed as a bot, asked about as a source: no bootstrap.
	if r := InferTrust(snap, "alice", "bot-official", domain.TargetSource, p); r.TrustValue != 0 {
		t.Errorf("type mismatch should not bootstrap, got %f", r.TrustValue)
	}
}

func TestInferTrust_NoVectorForUser(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"bob": threeRatings("bob", "t1", 0.9),
	})

	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if r.TrustValue != 0 || r.Confidence != 0 || !r.IsDefaulted {
		t.Errorf("user with no ratings should get the default: %+v", r)
	}
}

func TestInferTrust_NoOpinionsOnTarget(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob":   threeRatings("bob", "", 0),
	})

	r := InferTrust(snap, "alice", "t-unrated", domain.TargetAssertion, DefaultInferenceParams())
	if !r.IsDefaulted || r.TrustValue != 0 {
		t.Errorf("target nobody rated should default: %+v", r)
	}
}

func TestInferTrust_NoSimilarRaters(t *testing.T) {
	// Bob rated the target but shares only one entity with alice: below the
	// overlap minimum, so his opinion is unreachable.
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob": {
			explicitRel("bob", "e1", domain.TargetSource, 0.9),
			explicitRel("bob", "t1", domain.TargetAssertion, 0.95),
		},
	})

	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if !r.IsDefaulted || r.TrustValue != 0 {
		t.Errorf("insufficient overlap should default: %+v", r)
	}
}

func TestInferTrust_BlendedBelowThreshold(t *testing.T) {
	// Two identical raters give total weight 2 against threshold 5:
	// confidence 0.4, value = 0.4*0.7 + 0.6*0 = 0.28.
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob":   threeRatings("bob", "t1", 0.6),
		"carol": threeRatings("carol", "t1", 0.8),
	})

	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if r.IsExplicit || r.IsDefaulted {
		t.Fatalf("expected inferred result, got %+v", r)
	}
	if !floatEq(r.Confidence, 0.4) {
		t.Errorf("confidence = %f, want 0.4", r.Confidence)
	}
	if !floatEq(r.TrustValue, 0.28) {
		t.Errorf("trust = %f, want 0.28", r.TrustValue)
	}
	if r.NumSimilarUsers != 2 {
		t.Errorf("similar users = %d, want 2", r.NumSimilarUsers)
	}
}

func TestInferTrust_FullConfidenceAboveThreshold(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
	}
	// Six identical raters: total weight 6 over threshold 5.
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		rels[id] = threeRatings(id, "t1", 0.7)
	}
	snap := snapshotOf(rels)

	r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
	if !floatEq(r.TrustValue, 0.7) {
		t.Errorf("trust = %f, want 0.7", r.TrustValue)
	}
	if r.Confidence != 1 {
		t.Errorf("confidence = %f, want 1.0", r.Confidence)
	}
}

func TestInferTrust_ConfidenceContinuity(t *testing.T) {
	// As evidence grows from 1 to 6 identical raters the result must climb
	// smoothly from near the default toward the raw average, with no jump
	// at the threshold boundary.
	prev := -1.0
	for n := 1; n <= 6; n++ {
		rels := map[string][]domain.TrustRelationship{
			"alice": threeRatings("alice", "", 0),
		}
		for i := 0; i < n; i++ {
			rels[string(rune('b'+i))+"-user"] = threeRatings(string(rune('b'+i))+"-user", "t1", 0.7)
		}
		snap := snapshotOf(rels)

		r := InferTrust(snap, "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())
		if r.TrustValue < prev {
			t.Errorf("n=%d: trust %f dropped below previous %f", n, r.TrustValue, prev)
		}
		if r.TrustValue < 0 || r.TrustValue > 0.7+0.0001 {
			t.Errorf("n=%d: trust %f outside [0, 0.7]", n, r.TrustValue)
		}
		prev = r.TrustValue
	}
	// With 6 raters the blend has fully handed over to the average.
	if !floatEq(prev, 0.7) {
		t.Errorf("final trust = %f, want 0.7", prev)
	}
}

func TestInferTrust_SybilResistance(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob":   threeRatings("bob", "t1", 0.6),
		"carol": threeRatings("carol", "t1", 0.8),
	}
	before := InferTrust(snapshotOf(rels), "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())

	// A wave of fresh identities with no explicit ratings changes nothing.
	for i := 0; i < 50; i++ {
		rels["sybil-"+string(rune('a'+i%26))+string(rune('a'+i/26))] = nil
	}
	after := InferTrust(snapshotOf(rels), "alice", "t1", domain.TargetAssertion, DefaultInferenceParams())

	if !floatEq(before.TrustValue, after.TrustValue) || !floatEq(before.Confidence, after.Confidence) {
		t.Errorf("sybil accounts changed inference: before=%+v after=%+v", before, after)
	}

	// And the sybils themselves receive nothing.
	sybil := InferTrust(snapshotOf(rels), "alice", "sybil-aa", domain.TargetUser, DefaultInferenceParams())
	if sybil.TrustValue != 0 {
		t.Errorf("sybil received trust %f, want 0", sybil.TrustValue)
	}
}

func TestInferTrust_ResultsInRange(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": threeRatings("alice", "", 0),
		"bob":   threeRatings("bob", "t1", 1.0),
		"carol": threeRatings("carol", "t1", 0.0),
	}
	snap := snapshotOf(rels)

	for _, target := range []string{"t1", "e1", "nothing", "alice"} {
		r := InferTrust(snap, "alice", target, domain.TargetAssertion, DefaultInferenceParams())
		if r.TrustValue < 0 || r.TrustValue > 1 {
			t.Errorf("%s: trust %f outside [0,1]", target, r.TrustValue)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("%s: confidence %f outside [0,1]", target, r.Confidence)
		}
	}
}

func TestInferTrustBatch_MatchesSingle(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": append(threeRatings("alice", "", 0), explicitRel("alice", "t2", domain.TargetAssertion, 0.95)),
		"bob":   threeRatings("bob", "t1", 0.6),
		"carol": threeRatings("carol", "t1", 0.8),
	}
	snap := snapshotOf(rels)
	p := DefaultInferenceParams()

	targets := map[string]domain.TargetType{
		"t1":       domain.TargetAssertion,
		"t2":       domain.TargetAssertion,
		"t-absent": domain.TargetAssertion,
	}
	batch := InferTrustBatch(snap, "alice", targets, p)

	for targetID, targetType := range targets {
		single := InferTrust(snap, "alice", targetID, targetType, p)
		got := batch[targetID]
		if !floatEq(single.TrustValue, got.TrustValue) || !floatEq(single.Confidence, got.Confidence) {
			t.Errorf("%s: batch %+v != single %+v", targetID, got, single)
		}
		if single.IsExplicit != got.IsExplicit || single.IsDefaulted != got.IsDefaulted {
			t.Errorf("%s: flags diverge: batch %+v != single %+v", targetID, got, single)
		}
	}
}

func TestDefaultTrust(t *testing.T) {
	reg := registry.New([]string{"importer"}, []string{"wire"})

	tests := []struct {
		name       string
		userID     string
		targetID   string
		targetType domain.TargetType
		want       float64
	}{
		{"self", "alice", "alice", domain.TargetUser, 1.0},
		{"other user", "alice", "bob", domain.TargetUser, 0.0},
		{"official bot", "alice", "importer", domain.TargetBot, 0.5},
		{"unknown bot", "alice", "randobot", domain.TargetBot, 0.0},
		{"well-known source", "alice", "wire", domain.TargetSource, 0.5},
		{"unknown source", "alice", "blog", domain.TargetSource, 0.0},
		{"assertion", "alice", "a1", domain.TargetAssertion, 0.0},
		{"group", "alice", "g1", domain.TargetGroup, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTrust(reg, tt.userID, tt.targetID, tt.targetType); !floatEq(got, tt.want) {
				t.Errorf("DefaultTrust() = %f, want %f", got, tt.want)
			}
		})
	}
}
