package contracts

import (
	"github.com/chatspace/chatspace/workspace/models"
)

// IWorkspaceStore is the storage contract for workspaces, generic over the
// message record type carried inside conversations.
type IWorkspaceStore[M any] interface {
	// Projects
	CreateProject(name string, defaultModel string) (*models.Project, error)
	GetProject(name string) (*models.Project, error)
	ListProjects() ([]models.Project, error)
	DeleteProject(name string) error

	// Conversations
	CreateConversation(project string, name string) (*models.Conversation, error)
	LoadConversation(project string, id string) (*models.ConversationData[M], error)
	SaveConversation(project string, data *models.ConversationData[M]) error
	ListConversations(project string) ([]models.Conversation, error)
	RenameConversation(project string, id string, name string) error
	DeleteConversation(project string, id string) error
	AppendMessages(project string, id string, msgs ...M) error
	SearchConversations(project string, query string) ([]models.Conversation, error)

	// Todos
	AddTodo(project string, id string, content string) error
	CompleteTodo(project string, id string, position int) error
	ListTodos(project string, id string) ([]models.TodoItem, error)

	// Virtual file system
	WriteFile(project string, path string, content string) error
	ReadFile(project string, path string) (string, error)
	ListFiles(project string) ([]string, error)
	RemoveFile(project string, path string) error
	LoadProjectData(project string) (*models.ProjectData, error)
}
