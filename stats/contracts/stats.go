package contracts

import (
	"github.com/chatspace/chatspace/workspace/models"
)

// IStatsSource is the read surface the stats collector needs from a store.
type IStatsSource interface {
	ListProjects() ([]models.Project, error)
	ListConversations(project string) ([]models.Conversation, error)
	LoadProjectData(project string) (*models.ProjectData, error)
	CountTodos(project string) (open int, done int, err error)
	StorageBytes() (int64, error)
}
