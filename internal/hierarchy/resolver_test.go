package hierarchy

import (
	"errors"
	"testing"
)

// seedOverrideChain builds root (override M1) -> child (unset) ->
// grandchild (override M3).
func seedOverrideChain(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.InsertNode(&AgentNode{ID: "root", Rank: RankGeneral, ModelOverride: "M1", Active: true})
	store.InsertNode(&AgentNode{ID: "child", Rank: RankLieutenant, ParentID: "root", Active: true})
	store.InsertNode(&AgentNode{ID: "grandchild", Rank: RankSoldier, ParentID: "child", ModelOverride: "M3", Active: true})
	return store
}

func TestResolveModel_NearestOverrideWins(t *testing.T) {
	resolver := NewModelResolver(seedOverrideChain(t))

	model, err := resolver.ResolveModel("child")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if model != "M1" {
		t.Errorf("child: expected inherited override M1, got %s", model)
	}

	model, err = resolver.ResolveModel("grandchild")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if model != "M3" {
		t.Errorf("grandchild: expected own override M3, got %s", model)
	}
}

func TestResolveModel_SystemDefault(t *testing.T) {
	store := NewMemoryStore()
	store.InsertNode(&AgentNode{ID: "root", Rank: RankGeneral, Active: true})
	store.SetConfig(ConfigKeyDefaultModel, "claude-sonnet-4-5")

	model, err := NewModelResolver(store).ResolveModel("root")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if model != "claude-sonnet-4-5" {
		t.Errorf("expected system default, got %s", model)
	}
}

func TestResolveModel_WhitespaceOverrideIgnored(t *testing.T) {
	store := NewMemoryStore()
	store.InsertNode(&AgentNode{ID: "root", Rank: RankGeneral, ModelOverride: "  ", Active: true})
	store.SetConfig(ConfigKeyDefaultModel, "fallback-model")

	model, err := NewModelResolver(store).ResolveModel("root")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if model != "fallback-model" {
		t.Errorf("expected whitespace override to be skipped, got %s", model)
	}
}

func TestResolveModel_NoModelConfigured(t *testing.T) {
	store := NewMemoryStore()
	store.InsertNode(&AgentNode{ID: "root", Rank: RankGeneral, Active: true})

	_, err := NewModelResolver(store).ResolveModel("root")
	if !errors.Is(err, ErrNoModelConfigured) {
		t.Fatalf("expected ErrNoModelConfigured, got %v", err)
	}
}

func TestResolveModel_BrokenChainSurfaces(t *testing.T) {
	store := NewMemoryStore()
	store.InsertNode(&AgentNode{ID: "orphan", Rank: RankSoldier, ParentID: "gone", Active: true})
	store.SetConfig(ConfigKeyDefaultModel, "some-model")

	_, err := NewModelResolver(store).ResolveModel("orphan")
	if !errors.Is(err, ErrBrokenHierarchy) {
		t.Fatalf("expected ErrBrokenHierarchy, got %v", err)
	}
}
