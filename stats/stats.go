package stats

import (
	"fmt"

	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/stats/contracts"
)

// WorkspaceStats aggregates storage-wide totals.
type WorkspaceStats struct {
	Projects      int
	Conversations int
	Messages      int
	TodosOpen     int
	TodosDone     int
	Files         int
	StorageBytes  int64
}

// Collect walks the store and computes workspace-wide totals.
func Collect(source contracts.IStatsSource) (*WorkspaceStats, error) {
	stats := &WorkspaceStats{}

	projects, err := source.ListProjects()
	if err != nil {
		return nil, err
	}
	stats.Projects = len(projects)

	for _, project := range projects {
		conversations, err := source.ListConversations(project.Name)
		if err != nil {
			continue
		}
		stats.Conversations += len(conversations)
		for _, conv := range conversations {
			stats.Messages += conv.MessageCount
		}

		open, done, err := source.CountTodos(project.Name)
		if err == nil {
			stats.TodosOpen += open
			stats.TodosDone += done
		}

		if data, err := source.LoadProjectData(project.Name); err == nil {
			stats.Files += len(data.Files)
		}
	}

	bytes, err := source.StorageBytes()
	if err == nil {
		stats.StorageBytes = bytes
	}

	return stats, nil
}

// Display prints the stats in a box.
func (s *WorkspaceStats) Display() {
	info := fmt.Sprintf(
		"Projects: %d - Conversations: %d - Messages: %d\nTodos: %d open / %d done - Files: %d - Storage: %.2f MB",
		s.Projects, s.Conversations, s.Messages,
		s.TodosOpen, s.TodosDone, s.Files,
		float64(s.StorageBytes)/(1024*1024),
	)

	statsBox := lipgloss.BoxStyle.Render(info)
	fmt.Println(statsBox)
}
