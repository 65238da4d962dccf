package models

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Project is the runtime view of a named workspace containing conversations.
// ConversationsCount is derived from storage on load and never persisted.
type Project struct {
	Name               string
	Path               string
	CreatedAt          time.Time
	DefaultModel       string
	ConversationsCount int
}

// ProjectMetadata is the persisted summary of a Project.
// Timestamps are stored as RFC3339 text; derived counts are omitted.
type ProjectMetadata struct {
	Name         string `json:"name"`
	CreatedAt    string `json:"created_at"`
	DefaultModel string `json:"default_model,omitempty"`
}

// Conversation is the runtime summary of a single chat session.
// MessageCount and FileCount are derived from storage on load.
type Conversation struct {
	ID           string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	FileCount    int
}

// ConversationMetadata is the persisted identity of a conversation.
type ConversationMetadata struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ConversationData is the full persisted content of a conversation.
// The message record type is a seam left to the consuming system's
// chat-completion contract, so the sequence is generic rather than opaque.
type ConversationData[M any] struct {
	Metadata ConversationMetadata `json:"metadata"`
	Messages []M                  `json:"messages"`
	Todos    []TodoItem           `json:"todos,omitempty"`
}

// TodoItem is a single task attached to a conversation.
type TodoItem struct {
	Content   string `json:"content"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

// ProjectData is the persisted virtual file system for a project.
// It is scoped to the project, superseding the old per-conversation VFS.
type ProjectData struct {
	Files     map[string]string `json:"files"`
	UpdatedAt string            `json:"updated_at"`
}

// conversationIDPattern matches sequential conversation identifiers
// like "conv-001". At least three digits, zero-padded.
var conversationIDPattern = regexp.MustCompile(`^conv-\d{3,}$`)

// projectNamePattern restricts project names to filesystem-safe tokens.
var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// FormatConversationID renders a sequence number as a conversation ID.
func FormatConversationID(seq int) string {
	return fmt.Sprintf("conv-%03d", seq)
}

// ParseConversationID extracts the sequence number from a conversation ID.
func ParseConversationID(id string) (int, error) {
	if !conversationIDPattern.MatchString(id) {
		return 0, fmt.Errorf("invalid conversation id %q", id)
	}
	return strconv.Atoi(strings.TrimPrefix(id, "conv-"))
}

// IsValidConversationID reports whether id matches the conv-NNN format.
func IsValidConversationID(id string) bool {
	return conversationIDPattern.MatchString(id)
}

// IsValidProjectName reports whether name can be used as a project name.
func IsValidProjectName(name string) bool {
	return projectNamePattern.MatchString(name)
}

// Validate checks the shape contract of a runtime Project value.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if strings.TrimSpace(p.Path) == "" {
		return fmt.Errorf("project path must not be empty")
	}
	if p.CreatedAt.IsZero() {
		return fmt.Errorf("project %q has no creation time", p.Name)
	}
	if p.ConversationsCount < 0 {
		return fmt.Errorf("project %q has negative conversation count", p.Name)
	}
	return nil
}

// Validate checks the shape contract of a runtime Conversation value.
func (c *Conversation) Validate() error {
	if !IsValidConversationID(c.ID) {
		return fmt.Errorf("invalid conversation id %q", c.ID)
	}
	if c.MessageCount < 0 {
		return fmt.Errorf("conversation %s has negative message count", c.ID)
	}
	if c.FileCount < 0 {
		return fmt.Errorf("conversation %s has negative file count", c.ID)
	}
	return nil
}

// Validate checks that every VFS key is a clean relative path and every
// value is plain string content.
func (d *ProjectData) Validate() error {
	for path := range d.Files {
		if err := ValidateVFSPath(path); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVFSPath checks that path is usable as a virtual file system key:
// a clean, slash-separated relative path without traversal.
func ValidateVFSPath(path string) error {
	if path == "" {
		return fmt.Errorf("file path must not be empty")
	}
	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return fmt.Errorf("file path %q must be relative", path)
	}
	cleaned := filepath.ToSlash(filepath.Clean(path))
	if cleaned != path {
		return fmt.Errorf("file path %q is not a clean path", path)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("file path %q escapes the project root", path)
	}
	return nil
}
