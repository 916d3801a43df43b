package service

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
)

func TestBuildTrustVectors_ExplicitOnly(t *testing.T) {
	rels := map[string][]domain.TrustRelationship{
		"alice": {
			explicitRel("alice", "e1", domain.TargetSource, 0.9),
			{UserID: "alice", TargetID: "e2", TargetType: domain.TargetSource, TrustValue: 0.4, IsExplicit: false},
		},
		"bob": {
			{UserID: "bob", TargetID: "e1", TargetType: domain.TargetSource, TrustValue: 0.7, IsExplicit: false},
		},
	}

	vectors, explicit := BuildTrustVectors(rels)

	v := vectors["alice"]
	if v == nil {
		t.Fatal("expected a vector for alice")
	}
	if _, ok := v.Values["e2"]; ok {
		t.Error("inferred value leaked into vector")
	}
	if !floatEq(v.Values["e1"], 0.9) {
		t.Errorf("e1 = %f, want 0.9", v.Values["e1"])
	}

	// Bob only has inferred records: no vector at all.
	if _, ok := vectors["bob"]; ok {
		t.Error("user with only inferred records should have no vector")
	}
	if _, ok := explicit["bob"]; ok {
		t.Error("user with only inferred records should have no explicit lookup")
	}
}

func TestBuildTrustVectors_Empty(t *testing.T) {
	vectors, explicit := BuildTrustVectors(nil)
	if len(vectors) != 0 || len(explicit) != 0 {
		t.Errorf("empty input should yield empty maps, got %d vectors", len(vectors))
	}
}

func TestSnapshot_Raters(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": {explicitRel("alice", "e1", domain.TargetSource, 0.9)},
		"bob":   {explicitRel("bob", "e1", domain.TargetSource, 0.2)},
	})

	raters := snap.Raters("e1")
	if len(raters) != 2 {
		t.Errorf("got %d raters, want 2", len(raters))
	}
	if raters := snap.Raters("missing"); raters != nil {
		t.Errorf("expected no raters for unrated entity, got %v", raters)
	}
}

func TestSnapshot_RatedTargets(t *testing.T) {
	snap := snapshotOf(map[string][]domain.TrustRelationship{
		"alice": {
			explicitRel("alice", "e1", domain.TargetSource, 0.9),
			explicitRel("alice", "b1", domain.TargetBot, 0.4),
		},
	})

	targets := snap.RatedTargets()
	if targets["e1"] != domain.TargetSource {
		t.Errorf("e1 type = %s, want source", targets["e1"])
	}
	if targets["b1"] != domain.TargetBot {
		t.Errorf("b1 type = %s, want bot", targets["b1"])
	}
}
