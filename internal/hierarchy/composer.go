package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

// CustomPromptMarker is the literal placeholder a prompt may embed for
// caller-supplied text. Unresolved markers stay verbatim in the output so a
// missing substitution is observable downstream.
const CustomPromptMarker = "{USER_CUSTOM_PROMPT}"

// Section is one node's contribution to a composed prompt, kept alongside
// the concatenated text so callers can display provenance.
type Section struct {
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	Rank      Rank   `json:"rank"`
	Text      string `json:"text"`
}

// Composed is the full instruction text for an agent.
type Composed struct {
	Text     string    `json:"text"`
	Sections []Section `json:"sections"`
}

// Composer builds effective prompts by walking a node's ancestor chain.
// Composition is a pure read: repeated calls with unchanged registry state
// return identical output.
type Composer struct {
	store Store
}

// NewComposer creates a composer over the given store.
func NewComposer(store Store) *Composer {
	return &Composer{store: store}
}

// ancestorChain returns the nodes from the hierarchy root down to the node
// with the given id. A dangling parent reference or a cycle fails with
// ErrBrokenHierarchy; the chain is never silently truncated.
func ancestorChain(store Store, id string) ([]*AgentNode, error) {
	node, err := store.GetNode(id)
	if err != nil {
		return nil, err
	}

	chain := []*AgentNode{node}
	seen := map[string]bool{node.ID: true}

	for !node.IsRoot() {
		parent, err := store.GetNode(node.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: node %s references missing parent %s",
					ErrBrokenHierarchy, node.ID, node.ParentID)
			}
			return nil, err
		}
		if seen[parent.ID] {
			return nil, fmt.Errorf("%w: cycle through node %s", ErrBrokenHierarchy, parent.ID)
		}
		if !parent.Rank.Outranks(node.Rank) {
			return nil, fmt.Errorf("%w: parent %s (%s) does not outrank %s (%s)",
				ErrBrokenHierarchy, parent.ID, parent.Rank, node.ID, node.Rank)
		}
		seen[parent.ID] = true
		chain = append(chain, parent)
		node = parent
	}

	// Reverse to root-to-leaf order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Compose builds the full instruction text for an agent: each ancestor's
// active prompt text concatenated in root-to-leaf order, separated by a
// blank line. Nodes without an active version are skipped, not fatal. When
// customPrompt is non-empty, a single substitution pass replaces the
// placeholder marker in the result.
func (c *Composer) Compose(agentID, customPrompt string) (*Composed, error) {
	chain, err := ancestorChain(c.store, agentID)
	if err != nil {
		return nil, err
	}

	var sections []Section
	var texts []string
	for _, node := range chain {
		v, err := c.store.GetActiveVersion(node.ID)
		if err != nil {
			if errors.Is(err, ErrNoActiveVersion) {
				continue
			}
			return nil, err
		}
		sections = append(sections, Section{
			AgentID:   node.ID,
			AgentName: node.Name,
			Rank:      node.Rank,
			Text:      v.Text,
		})
		texts = append(texts, v.Text)
	}

	text := strings.Join(texts, "\n\n")
	if customPrompt != "" {
		text = strings.ReplaceAll(text, CustomPromptMarker, customPrompt)
	}

	return &Composed{Text: text, Sections: sections}, nil
}

// EffectivePrompt returns the node's own active version for display. Unlike
// Compose, a missing active version here is an error.
func (c *Composer) EffectivePrompt(agentID string) (*PromptVersion, error) {
	return c.store.GetActiveVersion(agentID)
}
