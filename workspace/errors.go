package workspace

import "errors"

// Sentinel errors for store lookups. Compare with errors.Is.
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectExists        = errors.New("project already exists")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrSnapshotNotFound     = errors.New("snapshot not found")
	ErrTodoNotFound         = errors.New("todo not found")
)
