package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chatspace/chatspace/workspace/models"
)

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// CreateConversation allocates the next sequential conversation ID in the
// project and persists an empty conversation.
func (s *Store[M]) CreateConversation(project string, name string) (*models.Conversation, error) {
	if _, err := s.loadProjectMetadata(project); err != nil {
		return nil, err
	}

	id, err := s.nextConversationID(project)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	data := models.ConversationData[M]{
		Metadata: models.ConversationMetadata{
			ID:        id,
			Name:      name,
			CreatedAt: models.FormatTime(now),
			UpdatedAt: models.FormatTime(now),
		},
		Messages: []M{},
	}

	if err := s.writeJSON(s.conversationPath(project, id), data); err != nil {
		return nil, err
	}

	return &models.Conversation{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// nextConversationID returns max existing sequence + 1. IDs are never
// reused, so deleting conv-003 does not make the next conversation conv-003.
func (s *Store[M]) nextConversationID(project string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(s.projectDir(project), conversationsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return models.FormatConversationID(1), nil
		}
		return "", err
	}

	maxSeq := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		seq, err := models.ParseConversationID(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return models.FormatConversationID(maxSeq + 1), nil
}

// LoadConversation retrieves the full persisted content of a conversation.
func (s *Store[M]) LoadConversation(project string, id string) (*models.ConversationData[M], error) {
	raw, err := os.ReadFile(s.conversationPath(project, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation %s in project %q: %w", id, project, ErrConversationNotFound)
		}
		return nil, err
	}

	var data models.ConversationData[M]
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupted conversation %s: %w", id, err)
	}

	return &data, nil
}

// SaveConversation persists a conversation, bumping its UpdatedAt.
func (s *Store[M]) SaveConversation(project string, data *models.ConversationData[M]) error {
	if !models.IsValidConversationID(data.Metadata.ID) {
		return fmt.Errorf("invalid conversation id %q", data.Metadata.ID)
	}
	data.Metadata.UpdatedAt = models.FormatTime(time.Now())
	return s.writeJSON(s.conversationPath(project, data.Metadata.ID), data)
}

// ListConversations returns conversation summaries with derived counts,
// most recently updated first. Corrupted files are skipped.
func (s *Store[M]) ListConversations(project string) ([]models.Conversation, error) {
	if _, err := s.loadProjectMetadata(project); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.projectDir(project), conversationsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Conversation{}, nil
		}
		return nil, err
	}

	// FileCount reports the project VFS size: the file system was hoisted
	// from conversation scope to project scope, so all conversations of a
	// project share one count.
	fileCount := 0
	if projectData, err := s.LoadProjectData(project); err == nil {
		fileCount = len(projectData.Files)
	}

	conversations := []models.Conversation{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if !models.IsValidConversationID(id) {
			continue
		}

		data, err := s.LoadConversation(project, id)
		if err != nil {
			continue // Skip corrupted files
		}

		summary, err := s.summarize(data, fileCount)
		if err != nil {
			continue
		}
		conversations = append(conversations, *summary)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

// summarize derives a runtime Conversation from persisted content.
func (s *Store[M]) summarize(data *models.ConversationData[M], fileCount int) (*models.Conversation, error) {
	createdAt, err := models.ParseTime(data.Metadata.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := models.ParseTime(data.Metadata.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &models.Conversation{
		ID:           data.Metadata.ID,
		Name:         data.Metadata.Name,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		MessageCount: len(data.Messages),
		FileCount:    fileCount,
	}, nil
}

// RenameConversation sets the display name of a conversation.
func (s *Store[M]) RenameConversation(project string, id string, name string) error {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return err
	}
	data.Metadata.Name = name
	return s.SaveConversation(project, data)
}

// DeleteConversation removes a conversation by ID.
func (s *Store[M]) DeleteConversation(project string, id string) error {
	if err := os.Remove(s.conversationPath(project, id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("conversation %s in project %q: %w", id, project, ErrConversationNotFound)
		}
		return err
	}
	return nil
}

// AppendMessages appends message records to a conversation and saves it.
func (s *Store[M]) AppendMessages(project string, id string, msgs ...M) error {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return err
	}
	data.Messages = append(data.Messages, msgs...)
	return s.SaveConversation(project, data)
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchConversations finds conversations whose name or message content
// contains the query (case-insensitive). Message content is only searched
// when the MessageText hook is set.
func (s *Store[M]) SearchConversations(project string, query string) ([]models.Conversation, error) {
	all, err := s.ListConversations(project)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	query = strings.ToLower(query)
	results := []models.Conversation{}

	for _, conv := range all {
		if strings.Contains(strings.ToLower(conv.Name), query) {
			results = append(results, conv)
			continue
		}
		if s.MessageText == nil {
			continue
		}

		data, err := s.LoadConversation(project, conv.ID)
		if err != nil {
			continue
		}
		for _, msg := range data.Messages {
			if strings.Contains(strings.ToLower(s.MessageText(msg)), query) {
				results = append(results, conv)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// TODO OPERATIONS
// =============================================================================

// AddTodo appends an open todo item to a conversation.
func (s *Store[M]) AddTodo(project string, id string, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("todo content must not be empty")
	}

	data, err := s.LoadConversation(project, id)
	if err != nil {
		return err
	}

	data.Todos = append(data.Todos, models.TodoItem{
		Content:   content,
		Done:      false,
		CreatedAt: models.FormatTime(time.Now()),
	})
	return s.SaveConversation(project, data)
}

// CompleteTodo marks the todo at position (1-based, in stored order) done.
func (s *Store[M]) CompleteTodo(project string, id string, position int) error {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return err
	}

	if position < 1 || position > len(data.Todos) {
		return fmt.Errorf("todo %d in conversation %s: %w", position, id, ErrTodoNotFound)
	}

	data.Todos[position-1].Done = true
	return s.SaveConversation(project, data)
}

// ListTodos returns the ordered todo items of a conversation.
func (s *Store[M]) ListTodos(project string, id string) ([]models.TodoItem, error) {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return nil, err
	}
	return data.Todos, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a conversation as markdown. Message bodies are
// included only when the MessageText hook is set.
func (s *Store[M]) ExportMarkdown(project string, id string) (string, error) {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	title := data.Metadata.ID
	if data.Metadata.Name != "" {
		title = data.Metadata.Name + " (" + data.Metadata.ID + ")"
	}
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("Created: " + data.Metadata.CreatedAt + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range data.Messages {
		if s.MessageText != nil {
			sb.WriteString(s.MessageText(msg))
		} else {
			raw, _ := json.Marshal(msg)
			sb.WriteString(string(raw))
		}
		sb.WriteString("\n\n---\n\n")
	}

	if len(data.Todos) > 0 {
		sb.WriteString("## Todos\n\n")
		for _, todo := range data.Todos {
			mark := " "
			if todo.Done {
				mark = "x"
			}
			sb.WriteString("- [" + mark + "] " + todo.Content + "\n")
		}
	}

	return sb.String(), nil
}

// ExportJSON returns the pretty-printed persisted form of a conversation.
func (s *Store[M]) ExportJSON(project string, id string) ([]byte, error) {
	data, err := s.LoadConversation(project, id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}
