package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/chatspace/chatspace/workspace/models"
)

// FileState records the state of a single VFS file for change detection.
type FileState struct {
	Path string `json:"path"`
	Size int    `json:"size"`
	Hash string `json:"hash"`
}

// ProjectSnapshot is a point-in-time record of a project's VFS state.
type ProjectSnapshot struct {
	Project string               `json:"project"`
	TakenAt string               `json:"taken_at"`
	Files   map[string]FileState `json:"files"`
}

// SnapshotDiff lists VFS paths that changed since a snapshot.
type SnapshotDiff struct {
	Added    []string
	Modified []string
	Removed  []string
}

// IsClean reports whether nothing changed.
func (d *SnapshotDiff) IsClean() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// hashContent fingerprints file content for cheap change detection.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(content))
}

// =============================================================================
// SNAPSHOT OPERATIONS
// =============================================================================

// Snapshot records the current VFS state of a project and persists it,
// replacing any previous snapshot.
func (s *Store[M]) Snapshot(project string) (*ProjectSnapshot, error) {
	data, err := s.LoadProjectData(project)
	if err != nil {
		return nil, err
	}

	snapshot := &ProjectSnapshot{
		Project: project,
		TakenAt: models.FormatTime(time.Now()),
		Files:   make(map[string]FileState, len(data.Files)),
	}

	for path, content := range data.Files {
		snapshot.Files[path] = FileState{
			Path: path,
			Size: len(content),
			Hash: hashContent(content),
		}
	}

	if err := s.writeJSON(filepath.Join(s.projectDir(project), snapshotFileName), snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// LoadSnapshot reads the stored snapshot of a project.
func (s *Store[M]) LoadSnapshot(project string) (*ProjectSnapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.projectDir(project), snapshotFileName))
	if err != nil {
		if os.IsNotExist(err) {
			if _, metaErr := s.loadProjectMetadata(project); metaErr != nil {
				return nil, metaErr
			}
			return nil, fmt.Errorf("project %q: %w", project, ErrSnapshotNotFound)
		}
		return nil, err
	}

	var snapshot ProjectSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("corrupted snapshot for project %q: %w", project, err)
	}
	return &snapshot, nil
}

// DiffSnapshot compares the current VFS against the stored snapshot.
// Content comparison uses the xxh3 fingerprint, not the raw bytes.
func (s *Store[M]) DiffSnapshot(project string) (*SnapshotDiff, error) {
	snapshot, err := s.LoadSnapshot(project)
	if err != nil {
		return nil, err
	}

	data, err := s.LoadProjectData(project)
	if err != nil {
		return nil, err
	}

	diff := &SnapshotDiff{}

	for path, content := range data.Files {
		prev, ok := snapshot.Files[path]
		if !ok {
			diff.Added = append(diff.Added, path)
			continue
		}
		if prev.Hash != hashContent(content) {
			diff.Modified = append(diff.Modified, path)
		}
	}

	for path := range snapshot.Files {
		if _, ok := data.Files[path]; !ok {
			diff.Removed = append(diff.Removed, path)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Modified)
	sort.Strings(diff.Removed)

	return diff, nil
}
