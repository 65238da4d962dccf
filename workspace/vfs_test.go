package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVFS_WriteReadRemove(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	require.NoError(t, store.WriteFile("demo", "src/index.ts", "export {}"))
	require.NoError(t, store.WriteFile("demo", "README.md", "# demo"))

	content, err := store.ReadFile("demo", "src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "export {}", content)

	// Overwrite in place
	require.NoError(t, store.WriteFile("demo", "src/index.ts", "export default 1"))
	content, err = store.ReadFile("demo", "src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, "export default 1", content)

	paths, err := store.ListFiles("demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "src/index.ts"}, paths)

	require.NoError(t, store.RemoveFile("demo", "README.md"))
	paths, err = store.ListFiles("demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.ts"}, paths)

	_, err = store.ReadFile("demo", "README.md")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, store.RemoveFile("demo", "README.md"), ErrFileNotFound)
}

func TestVFS_RejectsUnsafePaths(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	for _, path := range []string{"/etc/passwd", "../outside.txt", "a/../../b", "", "src//index.ts"} {
		assert.Error(t, store.WriteFile("demo", path, "x"), "expected %q to be rejected", path)
	}
}

func TestVFS_MissingProject(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadProjectData("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.ErrorIs(t, store.WriteFile("missing", "a.txt", "x"), ErrProjectNotFound)
}

func TestVFS_EmptyWhenDataFileAbsent(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	// Simulate a project created before the VFS existed
	require.NoError(t, os.Remove(filepath.Join(store.Root, "demo", "files.json")))

	data, err := store.LoadProjectData("demo")
	require.NoError(t, err)
	assert.Empty(t, data.Files)

	paths, err := store.ListFiles("demo")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestVFS_ImportDir(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"main.go":             "package main",
		"docs/guide.md":       "# guide",
		"node_modules/x/x.js": "ignored by default",
		".git/HEAD":           "ref: refs/heads/main",
		"build/output.txt":    "excluded by ignore file",
		"notes.private":       "excluded by ignore file",
		".chatspaceignore":    "build/\nnotes.private\n",
		"assets/logo.png":     "binary-ish",
		"big.txt":             strings.Repeat("a", maxImportFileSize+1),
	})

	imported, err := store.ImportDir("demo", src)
	require.NoError(t, err)

	assert.Contains(t, imported, "main.go")
	assert.Contains(t, imported, "docs/guide.md")

	// The ignore file never imports itself
	assert.NotContains(t, imported, ".chatspaceignore")
	assert.NotContains(t, imported, "node_modules/x/x.js")
	assert.NotContains(t, imported, ".git/HEAD")
	assert.NotContains(t, imported, "build/output.txt")
	assert.NotContains(t, imported, "notes.private")
	assert.NotContains(t, imported, "assets/logo.png")
	assert.NotContains(t, imported, "big.txt")

	// Results are sorted and the VFS reflects them
	assert.IsIncreasing(t, imported)
	content, err := store.ReadFile("demo", "main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", content)
}

func TestVFS_ImportDir_EmptyResultSkipsWrite(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateProject("demo", "")
	require.NoError(t, err)

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"node_modules/only.js": "nothing importable here",
	})

	imported, err := store.ImportDir("demo", src)
	require.NoError(t, err)
	assert.Empty(t, imported)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}
