package workspace

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chatspace/chatspace/utils"
	"github.com/chatspace/chatspace/workspace/models"
)

// maxImportFileSize caps files pulled into the virtual file system (100 KB).
const maxImportFileSize = 100 * 1024

// =============================================================================
// VIRTUAL FILE SYSTEM
// =============================================================================

// LoadProjectData reads the project-scoped virtual file system.
func (s *Store[M]) LoadProjectData(project string) (*models.ProjectData, error) {
	raw, err := os.ReadFile(filepath.Join(s.projectDir(project), dataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			// A project without a data file has an empty VFS
			if _, metaErr := s.loadProjectMetadata(project); metaErr != nil {
				return nil, metaErr
			}
			return &models.ProjectData{Files: map[string]string{}}, nil
		}
		return nil, err
	}

	var data models.ProjectData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupted file data for project %q: %w", project, err)
	}
	if data.Files == nil {
		data.Files = map[string]string{}
	}

	return &data, nil
}

// saveProjectData persists the VFS, bumping its UpdatedAt.
func (s *Store[M]) saveProjectData(project string, data *models.ProjectData) error {
	data.UpdatedAt = models.FormatTime(time.Now())
	return s.writeJSON(filepath.Join(s.projectDir(project), dataFileName), data)
}

// WriteFile stores content under a relative path in the project VFS.
func (s *Store[M]) WriteFile(project string, path string, content string) error {
	if err := models.ValidateVFSPath(path); err != nil {
		return err
	}

	data, err := s.LoadProjectData(project)
	if err != nil {
		return err
	}

	data.Files[path] = content
	return s.saveProjectData(project, data)
}

// ReadFile returns the content stored under path.
func (s *Store[M]) ReadFile(project string, path string) (string, error) {
	data, err := s.LoadProjectData(project)
	if err != nil {
		return "", err
	}

	content, ok := data.Files[path]
	if !ok {
		return "", fmt.Errorf("%s in project %q: %w", path, project, ErrFileNotFound)
	}
	return content, nil
}

// ListFiles returns all VFS paths of a project, sorted.
func (s *Store[M]) ListFiles(project string) ([]string, error) {
	data, err := s.LoadProjectData(project)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(data.Files))
	for path := range data.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// RemoveFile deletes a path from the project VFS.
func (s *Store[M]) RemoveFile(project string, path string) error {
	data, err := s.LoadProjectData(project)
	if err != nil {
		return err
	}

	if _, ok := data.Files[path]; !ok {
		return fmt.Errorf("%s in project %q: %w", path, project, ErrFileNotFound)
	}

	delete(data.Files, path)
	return s.saveProjectData(project, data)
}

// ImportDir walks a real directory and copies its files into the project
// VFS, honoring .chatspaceignore patterns and the built-in ignore set.
// Files over the size cap are skipped. Returns the imported paths.
func (s *Store[M]) ImportDir(project string, dir string) ([]string, error) {
	data, err := s.LoadProjectData(project)
	if err != nil {
		return nil, err
	}

	ignorePatterns, err := utils.GetIgnorePatterns(dir)
	if err != nil {
		return nil, err
	}

	var imported []string

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		if relativePath == "." {
			return nil
		}

		if utils.IsDefaultIgnored(relativePath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if utils.IsIgnored(relativePath, ignorePatterns) {
			return nil
		}

		fileInfo, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to get file info: %s, error: %w", relativePath, err)
		}
		if fileInfo.Size() > maxImportFileSize {
			return nil // Skip oversized files
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", relativePath, err)
		}

		data.Files[relativePath] = string(content)
		imported = append(imported, relativePath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(imported) == 0 {
		return imported, nil
	}

	sort.Strings(imported)
	return imported, s.saveProjectData(project, data)
}
