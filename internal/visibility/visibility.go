// Package visibility decides which tasks a user may see.
//
// A task with an empty assignment set is broadcast to every worker; a task with
// assignees is visible only to them. Admins see everything.
package visibility

import "github.com/yukikurage/task-review-api/internal/models"

// Assignable is anything that exposes a task's assignment set.
type Assignable interface {
	AssigneeIDs() []uint64
}

// Visible reports whether the viewer may see task.
func Visible(task Assignable, viewerID uint64, role models.UserRole) bool {
	if role == models.RoleAdmin {
		return true
	}
	ids := task.AssigneeIDs()
	if len(ids) == 0 {
		return true
	}
	return contains(ids, viewerID)
}

// SpecificallyAssigned reports whether the viewer is named in the assignment set.
// Broadcast tasks are not specifically assigned to anyone.
func SpecificallyAssigned(task Assignable, viewerID uint64) bool {
	return contains(task.AssigneeIDs(), viewerID)
}

// Filter keeps the tasks visible to the viewer, preserving order.
func Filter[T Assignable](tasks []T, viewerID uint64, role models.UserRole) []T {
	visible := make([]T, 0, len(tasks))
	for _, task := range tasks {
		if Visible(task, viewerID, role) {
			visible = append(visible, task)
		}
	}
	return visible
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
