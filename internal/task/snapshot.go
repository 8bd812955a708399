package task

import "slices"

// Snapshot is an immutable copy of a task list at one instant.
// The zero value is the empty list.
type Snapshot struct {
	tasks []Task
}

// NewSnapshot copies tasks into a snapshot.
func NewSnapshot(tasks []Task) Snapshot {
	return Snapshot{tasks: slices.Clone(tasks)}
}

// Tasks returns a copy of the snapshot's tasks.
func (s Snapshot) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks in the snapshot.
func (s Snapshot) Len() int {
	return len(s.tasks)
}

// Equal reports whether both snapshots hold the same tasks in the same order.
func (s Snapshot) Equal(other Snapshot) bool {
	return slices.Equal(s.tasks, other.tasks)
}
