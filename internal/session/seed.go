package session

import "taskdeck/internal/task"

// DefaultSeed returns the list a brand-new installation starts with.
func DefaultSeed() []task.Task {
	return []task.Task{
		{ID: 1, Name: "Finish project", Priority: task.High, DueDate: "2023-12-01"},
		{ID: 2, Name: "Buy groceries", Priority: task.Medium, DueDate: "2023-11-25"},
		{ID: 3, Name: "Call mom", Priority: task.Low, DueDate: "2023-11-20"},
	}
}
