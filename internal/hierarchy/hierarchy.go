// Package hierarchy provides the agent registry: a rank tree of agent
// nodes, each with versioned prompt texts and an optional model override.
package hierarchy

import (
	"errors"
	"time"
)

// Rank is an agent's position in the hierarchy. Composition runs from the
// highest rank down to the target node.
type Rank string

const (
	RankGeneral    Rank = "general"
	RankLieutenant Rank = "lieutenant"
	RankSoldier    Rank = "soldier"
)

// rankOrder maps ranks to numeric seniority (lower is more senior).
var rankOrder = map[Rank]int{
	RankGeneral:    0,
	RankLieutenant: 1,
	RankSoldier:    2,
}

// Valid reports whether the rank is one of the known values.
func (r Rank) Valid() bool {
	_, ok := rankOrder[r]
	return ok
}

// Outranks reports whether r is strictly senior to other.
func (r Rank) Outranks(other Rank) bool {
	return rankOrder[r] < rankOrder[other]
}

// Sentinel errors for the registry. Hierarchy errors indicate configuration
// problems and surface to the administrative layer; they are never retried.
var (
	ErrNotFound          = errors.New("agent not found")
	ErrBrokenHierarchy   = errors.New("broken hierarchy")
	ErrNoActiveVersion   = errors.New("no active prompt version")
	ErrNoModelConfigured = errors.New("no model configured")
)

// AgentNode is a single agent in the rank tree. Parent and rank are
// immutable after creation; nodes are deactivated, never deleted.
type AgentNode struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Rank          Rank      `json:"rank"`
	Category      string    `json:"category"` // e.g. "trading" vs "market"
	ParentID      string    `json:"parent_id"` // empty only for the root general
	Active        bool      `json:"active"`
	SortOrder     int       `json:"sort_order"`
	ModelOverride string    `json:"model_override,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsRoot reports whether the node is the hierarchy root.
func (n *AgentNode) IsRoot() bool {
	return n.ParentID == ""
}

// PromptVersion is one immutable revision of a node's prompt text. At most
// one version per node is active at any time.
type PromptVersion struct {
	AgentID   string    `json:"agent_id"`
	Version   int       `json:"version"`
	Text      string    `json:"text"`
	Note      string    `json:"note"`
	Author    string    `json:"author"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Config keys used by the registry.
const (
	ConfigKeyDefaultModel = "default_model"
)
