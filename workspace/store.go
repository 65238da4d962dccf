package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chatspace/chatspace/utils"
	"github.com/chatspace/chatspace/workspace/models"
)

const (
	metadataFileName = "project.json"
	dataFileName     = "files.json"
	snapshotFileName = "snapshot.json"
	conversationsDir = "conversations"
)

// Store persists workspaces under a root directory, one subdirectory per
// project. It is generic over the message record type M; the store never
// inspects message internals except through the MessageText hook.
type Store[M any] struct {
	// Root is the workspace root directory, e.g. ~/.chatspace
	Root string

	// MessageText extracts searchable text from a message record.
	// When nil, message-content search degrades to metadata-only search.
	MessageText func(M) string
}

// DefaultRoot returns the default workspace root (~/.chatspace).
func DefaultRoot() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".chatspace"), nil
}

// NewStore creates a store rooted at root, creating the directory if needed.
func NewStore[M any](root string) (*Store[M], error) {
	if root == "" {
		defaultRoot, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		root = defaultRoot
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}

	return &Store[M]{Root: root}, nil
}

// =============================================================================
// PROJECT OPERATIONS
// =============================================================================

// CreateProject creates a new named project with an empty virtual file
// system. Returns ErrProjectExists if the name is already taken.
func (s *Store[M]) CreateProject(name string, defaultModel string) (*models.Project, error) {
	if !models.IsValidProjectName(name) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}

	projectDir := s.projectDir(name)
	if _, err := os.Stat(projectDir); err == nil {
		return nil, fmt.Errorf("project %q: %w", name, ErrProjectExists)
	}

	if err := os.MkdirAll(filepath.Join(projectDir, conversationsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	now := time.Now()

	meta := models.ProjectMetadata{
		Name:         name,
		CreatedAt:    models.FormatTime(now),
		DefaultModel: defaultModel,
	}
	if err := s.writeJSON(filepath.Join(projectDir, metadataFileName), meta); err != nil {
		return nil, err
	}

	data := models.ProjectData{
		Files:     map[string]string{},
		UpdatedAt: models.FormatTime(now),
	}
	if err := s.writeJSON(filepath.Join(projectDir, dataFileName), data); err != nil {
		return nil, err
	}

	return &models.Project{
		Name:         name,
		Path:         projectDir,
		CreatedAt:    now,
		DefaultModel: defaultModel,
	}, nil
}

// GetProject loads a project with its derived conversation count.
func (s *Store[M]) GetProject(name string) (*models.Project, error) {
	meta, err := s.loadProjectMetadata(name)
	if err != nil {
		return nil, err
	}

	createdAt, err := models.ParseTime(meta.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}

	return &models.Project{
		Name:               meta.Name,
		Path:               s.projectDir(name),
		CreatedAt:          createdAt,
		DefaultModel:       meta.DefaultModel,
		ConversationsCount: s.countConversations(name),
	}, nil
}

// ListProjects returns all projects sorted by name. Directories without a
// readable metadata file are skipped.
func (s *Store[M]) ListProjects() ([]models.Project, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Project{}, nil
		}
		return nil, err
	}

	projects := []models.Project{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		project, err := s.GetProject(entry.Name())
		if err != nil {
			continue // Skip corrupted or foreign directories
		}
		projects = append(projects, *project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	return projects, nil
}

// DeleteProject removes a project and everything under it.
func (s *Store[M]) DeleteProject(name string) error {
	projectDir := s.projectDir(name)
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return fmt.Errorf("project %q: %w", name, ErrProjectNotFound)
	}
	return os.RemoveAll(projectDir)
}

// CountTodos returns the number of open and completed todos across all
// conversations of a project.
func (s *Store[M]) CountTodos(project string) (open int, done int, err error) {
	convs, err := s.ListConversations(project)
	if err != nil {
		return 0, 0, err
	}

	for _, conv := range convs {
		data, err := s.LoadConversation(project, conv.ID)
		if err != nil {
			continue
		}
		for _, todo := range data.Todos {
			if todo.Done {
				done++
			} else {
				open++
			}
		}
	}
	return open, done, nil
}

// StorageBytes returns the total size of all files under the workspace root.
func (s *Store[M]) StorageBytes() (int64, error) {
	var total int64
	err := filepath.Walk(s.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// projectDir returns the directory for a project name.
func (s *Store[M]) projectDir(name string) string {
	return filepath.Join(s.Root, name)
}

// conversationPath returns the file path for a conversation ID.
func (s *Store[M]) conversationPath(project string, id string) string {
	return filepath.Join(s.projectDir(project), conversationsDir, id+".json")
}

// loadProjectMetadata reads and parses a project's metadata file.
func (s *Store[M]) loadProjectMetadata(name string) (*models.ProjectMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.projectDir(name), metadataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project %q: %w", name, ErrProjectNotFound)
		}
		return nil, err
	}

	var meta models.ProjectMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("corrupted metadata for project %q: %w", name, err)
	}
	return &meta, nil
}

// countConversations counts conversation files without loading them.
func (s *Store[M]) countConversations(project string) int {
	entries, err := os.ReadDir(filepath.Join(s.projectDir(project), conversationsDir))
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if models.IsValidConversationID(strings.TrimSuffix(entry.Name(), ".json")) {
			count++
		}
	}
	return count
}

// writeJSON marshals v and writes it atomically.
func (s *Store[M]) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := utils.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
