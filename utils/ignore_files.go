package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore patterns
var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// GetIgnorePatterns reads and returns the patterns from the .chatspaceignore
// file in dir. If the file does not exist, it returns an empty pattern list.
// Parsed patterns are cached and invalidated on file modification.
func GetIgnorePatterns(dir string) ([]string, error) {
	ignorePath := filepath.Join(dir, ".chatspaceignore")

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .chatspaceignore: %w", err)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .chatspaceignore: %w", err)
	}

	// Update cache
	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// IsDefaultIgnored reports whether path matches the built-in ignore set.
// These are never imported into a project's virtual file system.
// Names match whole path segments only, so "out" skips an out/ directory
// but not output.txt.
func IsDefaultIgnored(path string) bool {
	ignoredNames := []string{
		"chatspace-config.yml",
		".chatspaceignore",
		".git",
		".svn",
		".idea",
		".vscode",
		".cache",
		"node_modules",
		"dist",
		"out",
		"bin",
		"obj",
		"coverage",
	}
	ignoredExtensions := []string{
		".exe", ".dll", ".log", ".bak",
		".jpg", ".jpeg", ".png", ".gif",
		".mp3", ".mp4", ".wav", ".mkv", ".mov",
	}

	parts := strings.Split(path, string(filepath.Separator))

	for _, part := range parts {
		part = strings.ToLower(part)
		for _, name := range ignoredNames {
			if part == name {
				return true
			}
		}
		for _, ext := range ignoredExtensions {
			if strings.HasSuffix(part, ext) {
				return true
			}
		}
	}
	return false
}

// readIgnoreFile reads an ignore file and returns the list of patterns.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks if a file path matches any of the given patterns.
func IsIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		match, _ := filepath.Match(pattern, path)
		if match {
			return true
		}
		// Patterns like "dir/" ignore entire directories
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}

// ClearIgnoreCache clears all cached ignore patterns.
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}
