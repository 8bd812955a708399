// Package service defines the backend-agnostic interface to a remote task
// service the local list can be exported to and imported from.
package service

import "context"

// Service defines the interface for remote task operations.
// All Google Tasks API calls go through this interface.
// Commands never import Google SDK directly.
type Service interface {
	// DefaultList returns the user's default task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// ListLists returns all task lists in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns error if not found or ambiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// ListOpenTasks returns open tasks for a list.
	// page is 1-based; page size is 100.
	// Returns empty slice if page is out of range.
	// Results are in API order (no client-side sorting).
	ListOpenTasks(ctx context.Context, listID string, page int) ([]Task, error)

	// CreateTask creates a new task in the specified list.
	// Title, Notes and Due are sent; ID and Status are ignored.
	CreateTask(ctx context.Context, listID string, t Task) error
}

// PageSize is the number of tasks ListOpenTasks returns per page.
const PageSize = 100

// AllOpenTasks pages through ListOpenTasks until a short page.
func AllOpenTasks(ctx context.Context, svc Service, listID string) ([]Task, error) {
	var all []Task
	for page := 1; ; page++ {
		tasks, err := svc.ListOpenTasks(ctx, listID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
		if len(tasks) < PageSize {
			return all, nil
		}
	}
}
