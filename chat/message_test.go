package chat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)

	_, err := uuid.Parse(msg.ID)
	require.NoError(t, err)

	_, err = time.Parse(time.RFC3339, msg.Timestamp)
	require.NoError(t, err)

	// IDs are unique per message
	other := NewMessage(RoleUser, "hello")
	assert.NotEqual(t, msg.ID, other.ID)
}

func TestMessageText(t *testing.T) {
	msg := NewMessage(RoleAssistant, "the searchable part")
	assert.Equal(t, "the searchable part", MessageText(msg))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "User", Label(RoleUser))
	assert.Equal(t, "Assistant", Label(RoleAssistant))
	assert.Equal(t, "System", Label(RoleSystem))
	assert.Equal(t, "Tool", Label(RoleTool))
	assert.Equal(t, "User", Label("something-else"))
}
