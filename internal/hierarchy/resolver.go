package hierarchy

import (
	"fmt"
	"strings"
)

// ModelResolver resolves the effective model id for an agent. Where
// composition merges every ancestor's prompt, model resolution takes the
// nearest non-empty override walking from the target node upward, falling
// back to the registry-wide default.
type ModelResolver struct {
	store Store
}

// NewModelResolver creates a resolver over the given store.
func NewModelResolver(store Store) *ModelResolver {
	return &ModelResolver{store: store}
}

// ResolveModel returns the model id that should service requests for the
// agent: the node's own override if set, else the closest ancestor's
// override, else the system default. Fails with ErrNoModelConfigured when
// none of those exist.
func (r *ModelResolver) ResolveModel(agentID string) (string, error) {
	chain, err := ancestorChain(r.store, agentID)
	if err != nil {
		return "", err
	}

	// Leaf-to-root: nearest override wins.
	for i := len(chain) - 1; i >= 0; i-- {
		if model := strings.TrimSpace(chain[i].ModelOverride); model != "" {
			return model, nil
		}
	}

	def, err := r.store.GetConfig(ConfigKeyDefaultModel)
	if err != nil {
		return "", err
	}
	if model := strings.TrimSpace(def); model != "" {
		return model, nil
	}

	return "", fmt.Errorf("%w: agent %s", ErrNoModelConfigured, agentID)
}
