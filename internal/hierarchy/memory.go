package hierarchy

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store, used by tests and by callers that do
// not need persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	nodes    map[string]*AgentNode
	versions map[string][]*PromptVersion
	config   map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:    make(map[string]*AgentNode),
		versions: make(map[string][]*PromptVersion),
		config:   make(map[string]string),
	}
}

// GetNode returns the node for an id.
func (s *MemoryStore) GetNode(id string) (*AgentNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := *n
	return &cp, nil
}

// ListNodes returns all nodes ordered by rank seniority then sort order.
func (s *MemoryStore) ListNodes() ([]*AgentNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*AgentNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		cp := *n
		nodes = append(nodes, &cp)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Rank != nodes[j].Rank {
			return nodes[i].Rank.Outranks(nodes[j].Rank)
		}
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes, nil
}

// InsertNode creates a new node.
func (s *MemoryStore) InsertNode(n *AgentNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !n.Rank.Valid() {
		return fmt.Errorf("invalid rank %q for node %s", n.Rank, n.ID)
	}
	if _, ok := s.nodes[n.ID]; ok {
		return fmt.Errorf("node already exists: %s", n.ID)
	}
	cp := *n
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.nodes[n.ID] = &cp
	return nil
}

// SetModelOverride updates a node's model override.
func (s *MemoryStore) SetModelOverride(id, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n.ModelOverride = model
	return nil
}

// SetActive updates a node's active flag.
func (s *MemoryStore) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n.Active = active
	return nil
}

// GetActiveVersion returns the node's active prompt version.
func (s *MemoryStore) GetActiveVersion(agentID string) (*PromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[agentID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, agentID)
	}
	for _, v := range s.versions[agentID] {
		if v.Active {
			cp := *v
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoActiveVersion, agentID)
}

// ListVersions returns all versions for a node, newest first.
func (s *MemoryStore) ListVersions(agentID string) ([]*PromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[agentID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, agentID)
	}
	versions := make([]*PromptVersion, 0, len(s.versions[agentID]))
	for _, v := range s.versions[agentID] {
		cp := *v
		versions = append(versions, &cp)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

// InsertVersion appends a new inactive version with number max+1.
func (s *MemoryStore) InsertVersion(agentID, text, note, author string) (*PromptVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[agentID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, agentID)
	}
	if text == "" {
		return nil, fmt.Errorf("prompt text must not be empty")
	}

	max := 0
	for _, v := range s.versions[agentID] {
		if v.Version > max {
			max = v.Version
		}
	}
	version := &PromptVersion{
		AgentID:   agentID,
		Version:   max + 1,
		Text:      text,
		Note:      note,
		Author:    author,
		CreatedAt: time.Now(),
	}
	s.versions[agentID] = append(s.versions[agentID], version)
	cp := *version
	return &cp, nil
}

// ActivateVersion flips the given version active and all others inactive.
func (s *MemoryStore) ActivateVersion(agentID string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[agentID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, agentID)
	}
	var target *PromptVersion
	for _, v := range s.versions[agentID] {
		if v.Version == version {
			target = v
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s version %d", ErrNotFound, agentID, version)
	}
	for _, v := range s.versions[agentID] {
		v.Active = false
	}
	target.Active = true
	return nil
}

// GetConfig returns the value for a key, or "" when absent.
func (s *MemoryStore) GetConfig(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config[key], nil
}

// SetConfig upserts a config key.
func (s *MemoryStore) SetConfig(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}
