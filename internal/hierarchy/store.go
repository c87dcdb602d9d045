package hierarchy

// Store is the interface for agent registry persistence. Reads vastly
// outnumber writes; all operations are short and single-record or
// small-batch. Implementations do not guarantee referential integrity of
// parent references, so traversal validates the chain every time.
type Store interface {
	// GetNode returns the node for an id, or ErrNotFound.
	GetNode(id string) (*AgentNode, error)
	// ListNodes returns all nodes ordered by rank seniority then sort order.
	ListNodes() ([]*AgentNode, error)
	// InsertNode creates a new node. Fails if the id already exists.
	InsertNode(n *AgentNode) error
	// SetModelOverride updates a node's model override ("" clears it).
	SetModelOverride(id, model string) error
	// SetActive updates a node's active flag.
	SetActive(id string, active bool) error

	// GetActiveVersion returns the node's active prompt version, or
	// ErrNoActiveVersion when the node has none (ErrNotFound when the node
	// itself is missing).
	GetActiveVersion(agentID string) (*PromptVersion, error)
	// ListVersions returns all versions for a node, newest first.
	ListVersions(agentID string) ([]*PromptVersion, error)
	// InsertVersion appends a new version with a store-assigned number one
	// greater than the node's current maximum. The new version is inactive.
	InsertVersion(agentID, text, note, author string) (*PromptVersion, error)
	// ActivateVersion flips the given version active and every other
	// version of the node inactive, atomically.
	ActivateVersion(agentID string, version int) error

	// GetConfig returns the value for a key, or "" when absent. A missing
	// key is a valid state, not an error.
	GetConfig(key string) (string, error)
	// SetConfig upserts a config key.
	SetConfig(key, value string) error
}
