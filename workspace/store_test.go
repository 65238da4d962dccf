package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatspace/chatspace/workspace/contracts"
)

// testMessage is a minimal message record exercising the generic seam.
type testMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

var _ contracts.IWorkspaceStore[testMessage] = (*Store[testMessage])(nil)

func newTestStore(t *testing.T) *Store[testMessage] {
	t.Helper()
	store, err := NewStore[testMessage](t.TempDir())
	require.NoError(t, err)
	store.MessageText = func(m testMessage) string { return m.Text }
	return store
}

func TestStore_CreateProject(t *testing.T) {
	store := newTestStore(t)

	project, err := store.CreateProject("demo", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "demo", project.Name)
	assert.Equal(t, "gpt-4o", project.DefaultModel)
	assert.Equal(t, 0, project.ConversationsCount)
	require.NoError(t, project.Validate())

	// Metadata and an empty VFS must exist on disk
	assert.FileExists(t, filepath.Join(store.Root, "demo", "project.json"))
	assert.FileExists(t, filepath.Join(store.Root, "demo", "files.json"))

	// Duplicate names are rejected
	_, err = store.CreateProject("demo", "")
	assert.ErrorIs(t, err, ErrProjectExists)

	// Invalid names are rejected
	_, err = store.CreateProject("../escape", "")
	assert.Error(t, err)
}

func TestStore_GetProject_RoundTripsTimestamp(t *testing.T) {
	store := newTestStore(t)

	before := time.Now().Add(-time.Second)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	project, err := store.GetProject("demo")
	require.NoError(t, err)
	assert.True(t, project.CreatedAt.After(before))

	_, err = store.GetProject("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStore_ListProjects(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ListProjects()
	require.NoError(t, err)

	_, err = store.CreateProject("beta", "")
	require.NoError(t, err)
	_, err = store.CreateProject("alpha", "")
	require.NoError(t, err)

	// A stray directory without metadata must be skipped
	require.NoError(t, os.MkdirAll(filepath.Join(store.Root, "not-a-project"), 0755))

	projects, err := store.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "alpha", projects[0].Name)
	assert.Equal(t, "beta", projects[1].Name)
}

func TestStore_DeleteProject(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject("demo"))
	assert.NoDirExists(t, filepath.Join(store.Root, "demo"))

	assert.ErrorIs(t, store.DeleteProject("demo"), ErrProjectNotFound)
}

func TestStore_CreateConversation_SequentialIDs(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	first, err := store.CreateConversation("demo", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-001", first.ID)

	second, err := store.CreateConversation("demo", "named")
	require.NoError(t, err)
	assert.Equal(t, "conv-002", second.ID)

	third, err := store.CreateConversation("demo", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-003", third.ID)

	// IDs are never reused after deletion
	require.NoError(t, store.DeleteConversation("demo", "conv-003"))
	fourth, err := store.CreateConversation("demo", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-004", fourth.ID)
}

func TestStore_CreateConversation_RequiresProject(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateConversation("missing", "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStore_AppendAndLoadMessages(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "")
	require.NoError(t, err)

	err = store.AppendMessages("demo", conv.ID,
		testMessage{Role: "user", Text: "hello"},
		testMessage{Role: "assistant", Text: "hi there"},
	)
	require.NoError(t, err)

	data, err := store.LoadConversation("demo", conv.ID)
	require.NoError(t, err)
	require.Len(t, data.Messages, 2)
	assert.Equal(t, "hello", data.Messages[0].Text)
	assert.Equal(t, "hi there", data.Messages[1].Text)

	// Message order is preserved across repeated appends
	err = store.AppendMessages("demo", conv.ID, testMessage{Role: "user", Text: "third"})
	require.NoError(t, err)
	data, err = store.LoadConversation("demo", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "third", data.Messages[2].Text)
}

func TestStore_ListConversations_DerivedCounts(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	conv, err := store.CreateConversation("demo", "with messages")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessages("demo", conv.ID,
		testMessage{Role: "user", Text: "one"},
		testMessage{Role: "user", Text: "two"},
	))

	_, err = store.CreateConversation("demo", "empty")
	require.NoError(t, err)

	require.NoError(t, store.WriteFile("demo", "notes.md", "# notes"))

	conversations, err := store.ListConversations("demo")
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Most recently updated first; "empty" was created last
	assert.Equal(t, "empty", conversations[0].Name)
	assert.Equal(t, 0, conversations[0].MessageCount)
	assert.Equal(t, "with messages", conversations[1].Name)
	assert.Equal(t, 2, conversations[1].MessageCount)

	// FileCount reflects the project-scoped VFS for every conversation
	assert.Equal(t, 1, conversations[0].FileCount)
	assert.Equal(t, 1, conversations[1].FileCount)

	for _, conv := range conversations {
		require.NoError(t, conv.Validate())
	}

	// Project conversation count is derived from the same storage
	project, err := store.GetProject("demo")
	require.NoError(t, err)
	assert.Equal(t, 2, project.ConversationsCount)
}

func TestStore_ListConversations_SkipsCorrupted(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	_, err = store.CreateConversation("demo", "")
	require.NoError(t, err)

	// Plant a corrupted conversation file
	corrupted := filepath.Join(store.Root, "demo", "conversations", "conv-999.json")
	require.NoError(t, os.WriteFile(corrupted, []byte("{not json"), 0644))

	conversations, err := store.ListConversations("demo")
	require.NoError(t, err)
	assert.Len(t, conversations, 1)

	// Direct load surfaces the corruption
	_, err = store.LoadConversation("demo", "conv-999")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConversationNotFound)
}

func TestStore_RenameConversation(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "")
	require.NoError(t, err)

	require.NoError(t, store.RenameConversation("demo", conv.ID, "better name"))

	data, err := store.LoadConversation("demo", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "better name", data.Metadata.Name)
}

func TestStore_DeleteConversation_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	err = store.DeleteConversation("demo", "conv-001")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestStore_SearchConversations(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	first, err := store.CreateConversation("demo", "deployment planning")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessages("demo", first.ID,
		testMessage{Role: "user", Text: "How do I configure the CI pipeline?"},
	))

	second, err := store.CreateConversation("demo", "recipes")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessages("demo", second.ID,
		testMessage{Role: "user", Text: "Best sourdough starter?"},
	))

	// Match by name, case-insensitive
	results, err := store.SearchConversations("demo", "DEPLOY")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, first.ID, results[0].ID)

	// Match by message content
	results, err = store.SearchConversations("demo", "sourdough")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second.ID, results[0].ID)

	// No match
	results, err = store.SearchConversations("demo", "kubernetes")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Empty query returns everything
	results, err = store.SearchConversations("demo", "")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_SearchWithoutMessageTextHook(t *testing.T) {
	store := newTestStore(t)
	store.MessageText = nil

	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "named match")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessages("demo", conv.ID, testMessage{Text: "content match"}))

	// Name search still works
	results, err := store.SearchConversations("demo", "named")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// Content search degrades to no match without the hook
	results, err = store.SearchConversations("demo", "content")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Todos(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "")
	require.NoError(t, err)

	require.NoError(t, store.AddTodo("demo", conv.ID, "write tests"))
	require.NoError(t, store.AddTodo("demo", conv.ID, "ship it"))

	todos, err := store.ListTodos("demo", conv.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "write tests", todos[0].Content)
	assert.False(t, todos[0].Done)
	assert.NotEmpty(t, todos[0].CreatedAt)

	require.NoError(t, store.CompleteTodo("demo", conv.ID, 1))
	todos, err = store.ListTodos("demo", conv.ID)
	require.NoError(t, err)
	assert.True(t, todos[0].Done)
	assert.False(t, todos[1].Done)

	// Out-of-range positions are rejected
	assert.ErrorIs(t, store.CompleteTodo("demo", conv.ID, 0), ErrTodoNotFound)
	assert.ErrorIs(t, store.CompleteTodo("demo", conv.ID, 3), ErrTodoNotFound)

	// Empty content is rejected
	assert.Error(t, store.AddTodo("demo", conv.ID, "   "))

	open, done, err := store.CountTodos("demo")
	require.NoError(t, err)
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, done)
}

func TestStore_ExportMarkdown(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "export me")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessages("demo", conv.ID, testMessage{Role: "user", Text: "hello world"}))
	require.NoError(t, store.AddTodo("demo", conv.ID, "follow up"))

	markdown, err := store.ExportMarkdown("demo", conv.ID)
	require.NoError(t, err)
	assert.Contains(t, markdown, "# export me (conv-001)")
	assert.Contains(t, markdown, "hello world")
	assert.Contains(t, markdown, "- [ ] follow up")

	raw, err := store.ExportJSON("demo", conv.ID)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"conv-001"`)
}

func TestStore_PersistedTimestampsAreText(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)
	conv, err := store.CreateConversation("demo", "")
	require.NoError(t, err)

	data, err := store.LoadConversation("demo", conv.ID)
	require.NoError(t, err)

	// RFC3339 text at the persistence boundary
	_, err = time.Parse(time.RFC3339, data.Metadata.CreatedAt)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, data.Metadata.UpdatedAt)
	assert.NoError(t, err)
}
