// Package index maintains an optional sqlite search index over conversation
// metadata and message text. The JSON files in the workspace store remain
// authoritative; the index can be dropped and rebuilt from them at any time.
package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chatspace/chatspace/workspace/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	project     TEXT NOT NULL,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (project, id)
);

CREATE TABLE IF NOT EXISTS messages (
	project         TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	position        INTEGER NOT NULL,
	content         TEXT NOT NULL,
	PRIMARY KEY (project, conversation_id, position)
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages (project, conversation_id);
`

// Index wraps the sqlite database holding the search index.
type Index struct {
	db *sql.DB
}

// Hit is a single search result.
type Hit struct {
	Project        string
	ConversationID string
	Name           string
	Snippet        string
	UpdatedAt      time.Time
}

// Open opens (or creates) the index database and ensures the schema.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the index database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Reset drops all indexed data.
func (ix *Index) Reset() error {
	if _, err := ix.db.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("reset messages: %w", err)
	}
	if _, err := ix.db.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("reset conversations: %w", err)
	}
	return nil
}

// IndexConversation replaces the indexed rows for one conversation.
// texts is the ordered searchable text of its messages.
func (ix *Index) IndexConversation(project string, conv models.Conversation, texts []string) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM messages WHERE project = ? AND conversation_id = ?`,
		project, conv.ID,
	); err != nil {
		return fmt.Errorf("clear messages for %s: %w", conv.ID, err)
	}

	// Timestamps go in as unix nanoseconds: RFC3339Nano text trims trailing
	// fraction zeros and does not sort chronologically
	if _, err := tx.Exec(
		`INSERT INTO conversations (project, id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (project, id) DO UPDATE SET
			name = excluded.name,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		project, conv.ID, conv.Name,
		conv.CreatedAt.UnixNano(), conv.UpdatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("upsert conversation %s: %w", conv.ID, err)
	}

	for position, content := range texts {
		if _, err := tx.Exec(
			`INSERT INTO messages (project, conversation_id, position, content)
			 VALUES (?, ?, ?, ?)`,
			project, conv.ID, position, content,
		); err != nil {
			return fmt.Errorf("insert message %d of %s: %w", position, conv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RemoveConversation drops a conversation from the index.
func (ix *Index) RemoveConversation(project string, id string) error {
	if _, err := ix.db.Exec(
		`DELETE FROM messages WHERE project = ? AND conversation_id = ?`,
		project, id,
	); err != nil {
		return fmt.Errorf("remove messages for %s: %w", id, err)
	}
	if _, err := ix.db.Exec(
		`DELETE FROM conversations WHERE project = ? AND id = ?`,
		project, id,
	); err != nil {
		return fmt.Errorf("remove conversation %s: %w", id, err)
	}
	return nil
}

// Search finds conversations in a project whose name or message content
// matches the query, case-insensitive, most recently updated first.
func (ix *Index) Search(project string, query string) ([]Hit, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := ix.db.Query(
		`SELECT c.project, c.id, c.name, c.updated_at,
			COALESCE((SELECT m.content FROM messages m
				WHERE m.project = c.project AND m.conversation_id = c.id
				AND lower(m.content) LIKE ?
				ORDER BY m.position LIMIT 1), '') AS snippet
		 FROM conversations c
		 WHERE c.project = ?
		   AND (lower(c.name) LIKE ? OR EXISTS (
			SELECT 1 FROM messages m
			WHERE m.project = c.project AND m.conversation_id = c.id
			  AND lower(m.content) LIKE ?))
		 ORDER BY c.updated_at DESC`,
		pattern, project, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		var updatedAtNs int64
		var snippet string
		if err := rows.Scan(&hit.Project, &hit.ConversationID, &hit.Name, &updatedAtNs, &snippet); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hit.UpdatedAt = time.Unix(0, updatedAtNs).UTC()
		hit.Snippet = truncateSnippet(snippet, 80)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Count returns the number of indexed conversations and messages.
func (ix *Index) Count() (conversations int, messages int, err error) {
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&conversations); err != nil {
		return 0, 0, fmt.Errorf("count conversations: %w", err)
	}
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messages); err != nil {
		return 0, 0, fmt.Errorf("count messages: %w", err)
	}
	return conversations, messages, nil
}

// truncateSnippet trims a snippet for display, rune-safe.
func truncateSnippet(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
