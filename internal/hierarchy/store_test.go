package hierarchy

import (
	"errors"
	"path/filepath"
	"testing"
)

// storeImpls returns each Store implementation under test.
func storeImpls(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_NodeRoundTrip(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			node := &AgentNode{
				ID:            "general",
				Name:          "The General",
				Rank:          RankGeneral,
				Category:      "command",
				Active:        true,
				ModelOverride: "claude-sonnet-4-5",
			}
			if err := store.InsertNode(node); err != nil {
				t.Fatalf("insert: %v", err)
			}

			got, err := store.GetNode("general")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Name != "The General" || got.Rank != RankGeneral || got.ModelOverride != "claude-sonnet-4-5" {
				t.Errorf("unexpected node: %+v", got)
			}

			if err := store.InsertNode(node); err == nil {
				t.Error("expected duplicate insert to fail")
			}

			if _, err := store.GetNode("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_InsertNodeRejectsInvalidRank(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			err := store.InsertNode(&AgentNode{ID: "bogus", Rank: Rank("emperor")})
			if err == nil {
				t.Fatal("expected invalid rank to be rejected")
			}
			if _, err := store.GetNode("bogus"); !errors.Is(err, ErrNotFound) {
				t.Errorf("rejected node must not be stored, got %v", err)
			}
		})
	}
}

func TestStore_ListNodesOrdersByRank(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "s1", Rank: RankSoldier, ParentID: "l1", SortOrder: 0})
			store.InsertNode(&AgentNode{ID: "g1", Rank: RankGeneral, SortOrder: 0})
			store.InsertNode(&AgentNode{ID: "l2", Rank: RankLieutenant, ParentID: "g1", SortOrder: 2})
			store.InsertNode(&AgentNode{ID: "l1", Rank: RankLieutenant, ParentID: "g1", SortOrder: 1})

			nodes, err := store.ListNodes()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var ids []string
			for _, n := range nodes {
				ids = append(ids, n.ID)
			}
			want := []string{"g1", "l1", "l2", "s1"}
			for i := range want {
				if ids[i] != want[i] {
					t.Fatalf("expected order %v, got %v", want, ids)
				}
			}
		})
	}
}

func TestStore_VersionNumbering(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "agent", Rank: RankGeneral})

			v1, err := store.InsertVersion("agent", "first", "initial", "alice")
			if err != nil {
				t.Fatalf("insert v1: %v", err)
			}
			v2, err := store.InsertVersion("agent", "second", "", "bob")
			if err != nil {
				t.Fatalf("insert v2: %v", err)
			}
			if v1.Version != 1 || v2.Version != 2 {
				t.Errorf("expected versions 1 and 2, got %d and %d", v1.Version, v2.Version)
			}
			if v1.Active || v2.Active {
				t.Error("new versions must start inactive")
			}

			versions, err := store.ListVersions("agent")
			if err != nil {
				t.Fatalf("list versions: %v", err)
			}
			if len(versions) != 2 || versions[0].Version != 2 {
				t.Errorf("expected newest-first listing, got %+v", versions)
			}
		})
	}
}

func TestStore_InsertVersionRejectsEmptyText(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "agent", Rank: RankGeneral})
			if _, err := store.InsertVersion("agent", "", "", ""); err == nil {
				t.Error("expected empty prompt text to be rejected")
			}
		})
	}
}

func TestStore_ActivationIsExclusive(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "agent", Rank: RankGeneral})
			store.InsertVersion("agent", "first", "", "")
			store.InsertVersion("agent", "second", "", "")
			store.InsertVersion("agent", "third", "", "")

			if err := store.ActivateVersion("agent", 2); err != nil {
				t.Fatalf("activate v2: %v", err)
			}
			if err := store.ActivateVersion("agent", 3); err != nil {
				t.Fatalf("activate v3: %v", err)
			}

			active, err := store.GetActiveVersion("agent")
			if err != nil {
				t.Fatalf("get active: %v", err)
			}
			if active.Version != 3 {
				t.Errorf("expected v3 active, got v%d", active.Version)
			}

			versions, _ := store.ListVersions("agent")
			activeCount := 0
			for _, v := range versions {
				if v.Active {
					activeCount++
				}
			}
			if activeCount != 1 {
				t.Errorf("expected exactly one active version, got %d", activeCount)
			}
		})
	}
}

func TestStore_ActivateUnknownVersion(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "agent", Rank: RankGeneral})
			store.InsertVersion("agent", "only", "", "")

			if err := store.ActivateVersion("agent", 99); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for unknown version, got %v", err)
			}

			// The existing state is untouched by the failed activation.
			if _, err := store.GetActiveVersion("agent"); !errors.Is(err, ErrNoActiveVersion) {
				t.Errorf("expected no active version, got %v", err)
			}
		})
	}
}

func TestStore_GetActiveVersionErrors(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "bare", Rank: RankGeneral})

			if _, err := store.GetActiveVersion("bare"); !errors.Is(err, ErrNoActiveVersion) {
				t.Errorf("expected ErrNoActiveVersion, got %v", err)
			}
			if _, err := store.GetActiveVersion("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ModelOverrideUpdate(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			store.InsertNode(&AgentNode{ID: "agent", Rank: RankGeneral, ModelOverride: "old-model"})

			if err := store.SetModelOverride("agent", "new-model"); err != nil {
				t.Fatalf("set override: %v", err)
			}
			n, _ := store.GetNode("agent")
			if n.ModelOverride != "new-model" {
				t.Errorf("expected new-model, got %s", n.ModelOverride)
			}

			if err := store.SetModelOverride("agent", ""); err != nil {
				t.Fatalf("clear override: %v", err)
			}
			n, _ = store.GetNode("agent")
			if n.ModelOverride != "" {
				t.Errorf("expected cleared override, got %s", n.ModelOverride)
			}
		})
	}
}

func TestStore_Config(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			// Absent keys read as empty, not as an error.
			v, err := store.GetConfig("absent")
			if err != nil || v != "" {
				t.Errorf("expected empty value for absent key, got %q (%v)", v, err)
			}

			store.SetConfig(ConfigKeyDefaultModel, "m1")
			store.SetConfig(ConfigKeyDefaultModel, "m2")

			v, err = store.GetConfig(ConfigKeyDefaultModel)
			if err != nil {
				t.Fatalf("get config: %v", err)
			}
			if v != "m2" {
				t.Errorf("expected upserted value m2, got %s", v)
			}
		})
	}
}
