package hierarchy

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore stores the agent registry in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// init creates the database schema.
func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		rank TEXT NOT NULL,
		category TEXT,
		parent_id TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		model_override TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prompt_versions (
		agent_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		text TEXT NOT NULL,
		note TEXT,
		author TEXT,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (agent_id, version),
		FOREIGN KEY (agent_id) REFERENCES agents(id)
	);

	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_versions_active ON prompt_versions(agent_id, is_active);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetNode returns the node for an id.
func (s *SQLiteStore) GetNode(id string) (*AgentNode, error) {
	row := s.db.QueryRow(`
		SELECT id, name, rank, category, parent_id, active, sort_order, model_override, created_at
		FROM agents WHERE id = ?
	`, id)
	return scanNode(row)
}

// ListNodes returns all nodes ordered by rank seniority then sort order.
func (s *SQLiteStore) ListNodes() ([]*AgentNode, error) {
	rows, err := s.db.Query(`
		SELECT id, name, rank, category, parent_id, active, sort_order, model_override, created_at
		FROM agents
		ORDER BY CASE rank WHEN 'general' THEN 0 WHEN 'lieutenant' THEN 1 ELSE 2 END, sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var nodes []*AgentNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...interface{}) error
}

func scanNode(row scannable) (*AgentNode, error) {
	var n AgentNode
	var rank string
	var category, parentID, modelOverride sql.NullString
	var active int

	err := row.Scan(&n.ID, &n.Name, &rank, &category, &parentID, &active,
		&n.SortOrder, &modelOverride, &n.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}

	n.Rank = Rank(rank)
	n.Active = active != 0
	if category.Valid {
		n.Category = category.String
	}
	if parentID.Valid {
		n.ParentID = parentID.String
	}
	if modelOverride.Valid {
		n.ModelOverride = modelOverride.String
	}
	return &n, nil
}

// InsertNode creates a new node.
func (s *SQLiteStore) InsertNode(n *AgentNode) error {
	if !n.Rank.Valid() {
		return fmt.Errorf("invalid rank %q for node %s", n.Rank, n.ID)
	}
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	parentID := sql.NullString{String: n.ParentID, Valid: n.ParentID != ""}

	_, err := s.db.Exec(`
		INSERT INTO agents (id, name, rank, category, parent_id, active, sort_order, model_override, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Name, string(n.Rank), n.Category, parentID, boolToInt(n.Active),
		n.SortOrder, n.ModelOverride, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert agent: %w", err)
	}
	return nil
}

// SetModelOverride updates a node's model override.
func (s *SQLiteStore) SetModelOverride(id, model string) error {
	return s.updateNode(id, "UPDATE agents SET model_override = ? WHERE id = ?", model)
}

// SetActive updates a node's active flag.
func (s *SQLiteStore) SetActive(id string, active bool) error {
	return s.updateNode(id, "UPDATE agents SET active = ? WHERE id = ?", boolToInt(active))
}

func (s *SQLiteStore) updateNode(id, query string, value interface{}) error {
	res, err := s.db.Exec(query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetActiveVersion returns the node's active prompt version.
func (s *SQLiteStore) GetActiveVersion(agentID string) (*PromptVersion, error) {
	if _, err := s.GetNode(agentID); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		SELECT agent_id, version, text, note, author, is_active, created_at
		FROM prompt_versions WHERE agent_id = ? AND is_active = 1
	`, agentID)

	v, err := scanVersion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNoActiveVersion, agentID)
		}
		return nil, err
	}
	return v, nil
}

// ListVersions returns all versions for a node, newest first.
func (s *SQLiteStore) ListVersions(agentID string) ([]*PromptVersion, error) {
	if _, err := s.GetNode(agentID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT agent_id, version, text, note, author, is_active, created_at
		FROM prompt_versions WHERE agent_id = ? ORDER BY version DESC
	`, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []*PromptVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanVersion(row scannable) (*PromptVersion, error) {
	var v PromptVersion
	var note, author sql.NullString
	var active int

	err := row.Scan(&v.AgentID, &v.Version, &v.Text, &note, &author, &active, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan version: %w", err)
	}

	if note.Valid {
		v.Note = note.String
	}
	if author.Valid {
		v.Author = author.String
	}
	v.Active = active != 0
	return &v, nil
}

// InsertVersion appends a new inactive version with number max+1.
func (s *SQLiteStore) InsertVersion(agentID, text, note, author string) (*PromptVersion, error) {
	if _, err := s.GetNode(agentID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("prompt text must not be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(version), 0) + 1 FROM prompt_versions WHERE agent_id = ?
	`, agentID).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("failed to assign version number: %w", err)
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO prompt_versions (agent_id, version, text, note, author, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, agentID, next, text, note, author, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}

	return &PromptVersion{
		AgentID:   agentID,
		Version:   next,
		Text:      text,
		Note:      note,
		Author:    author,
		CreatedAt: now,
	}, nil
}

// ActivateVersion flips the given version active and all others inactive
// in a single transaction. Racing activations are last-write-wins; the
// statement order guarantees exactly one active row afterwards.
func (s *SQLiteStore) ActivateVersion(agentID string, version int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM prompt_versions WHERE agent_id = ? AND version = ?
	`, agentID, version).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s version %d", ErrNotFound, agentID, version)
	}

	if _, err := tx.Exec(`UPDATE prompt_versions SET is_active = 0 WHERE agent_id = ?`, agentID); err != nil {
		return fmt.Errorf("failed to deactivate versions: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE prompt_versions SET is_active = 1 WHERE agent_id = ? AND version = ?
	`, agentID, version); err != nil {
		return fmt.Errorf("failed to activate version: %w", err)
	}

	return tx.Commit()
}

// GetConfig returns the value for a key, or "" when absent.
func (s *SQLiteStore) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	return value, nil
}

// SetConfig upserts a config key.
func (s *SQLiteStore) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
