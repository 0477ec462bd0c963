package testutil

import (
	"fmt"
	"testing"

	"github.com/trovehq/trove/internal/storage"
)

// ProjectWithTasks seeds one project and n tasks linked to it. The first
// done tasks are marked "done", the rest stay "todo".
func ProjectWithTasks(t *testing.T, store storage.Store, projectID string, n, done int) {
	t.Helper()
	b := NewBuilder(t, store).WithProject(projectID)
	for i := 0; i < n; i++ {
		status := "todo"
		if i < done {
			status = "done"
		}
		b = b.WithTask(fmt.Sprintf("%s-task-%d", projectID, i),
			InProject(projectID), Status(status))
	}
	b.Build()
}
