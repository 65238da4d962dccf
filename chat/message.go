// Package chat defines the concrete message record the CLI stores inside
// conversations. The workspace store itself is generic over this type; any
// consumer with a different chat-completion contract can bind its own.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatspace/chatspace/workspace/models"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is a single chat message in the standard completion shape.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and current timestamp.
func NewMessage(role string, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: models.FormatTime(time.Now()),
	}
}

// MessageText extracts searchable text from a message. It is the hook the
// workspace store and the search index use, keeping both ignorant of the
// message shape.
func MessageText(m Message) string {
	return m.Content
}

// Label returns a display label for the message role.
func Label(role string) string {
	switch role {
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	case RoleTool:
		return "Tool"
	default:
		return "User"
	}
}
