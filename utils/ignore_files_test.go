package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIgnorePatterns(t *testing.T) {
	dir := t.TempDir()

	// No ignore file means no patterns
	patterns, err := GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Empty(t, patterns)

	ignoreContent := `# build artifacts
build/

*.private
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chatspaceignore"), []byte(ignoreContent), 0644))

	patterns, err = GetIgnorePatterns(dir)
	require.NoError(t, err)
	// Comments and blank lines are dropped
	assert.Equal(t, []string{"build/", "*.private"}, patterns)
}

func TestIsIgnored(t *testing.T) {
	patterns := []string{"build/", "*.private", "secret.txt"}

	assert.True(t, IsIgnored("build/output.txt", patterns))
	assert.True(t, IsIgnored("notes.private", patterns))
	assert.True(t, IsIgnored("secret.txt", patterns))

	assert.False(t, IsIgnored("src/main.go", patterns))
	assert.False(t, IsIgnored("builder.go", patterns))
}

func TestIsDefaultIgnored(t *testing.T) {
	ignored := []string{
		"node_modules/react/index.js",
		".git/HEAD",
		"dist/bundle.js",
		"out/index.js",
		"bin/tool",
		"assets/logo.png",
		"debug.log",
		".chatspaceignore",
	}
	for _, path := range ignored {
		assert.True(t, IsDefaultIgnored(path), "expected %q to be ignored", path)
	}

	// Name patterns match whole segments, not substrings
	kept := []string{
		"main.go",
		"src/index.ts",
		"README.md",
		"output.txt",
		"distance.go",
		"binary.go",
		"docs/outline.md",
	}
	for _, path := range kept {
		assert.False(t, IsDefaultIgnored(path), "expected %q to be kept", path)
	}
}

func TestIgnoreCache_InvalidatesOnChange(t *testing.T) {
	ClearIgnoreCache()
	dir := t.TempDir()
	ignorePath := filepath.Join(dir, ".chatspaceignore")

	require.NoError(t, os.WriteFile(ignorePath, []byte("first/\n"), 0644))
	patterns, err := GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"first/"}, patterns)

	// Rewrite with a different modification time
	require.NoError(t, os.WriteFile(ignorePath, []byte("second/\n"), 0644))
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(ignorePath, future, future))

	patterns, err = GetIgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"second/"}, patterns)
}
