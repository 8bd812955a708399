package task

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Store owns the current task list. It is not safe for concurrent use;
// callers run one action at a time.
type Store struct {
	tasks  []Task
	nextID int
	locale language.Tag
}

// Option configures a Store.
type Option func(*Store)

// WithLocale sets the locale used by SortByName.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) {
		s.locale = tag
	}
}

// NewStore creates a store holding a copy of tasks. The tasks are trusted
// (loaded from storage) and are not validated.
func NewStore(tasks []Task, opts ...Option) *Store {
	s := &Store{
		nextID: 1,
		locale: language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ReplaceAll(tasks)
	return s
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Snapshot copies the current list.
func (s *Store) Snapshot() Snapshot {
	return NewSnapshot(s.tasks)
}

// Restore replaces the list with the contents of a snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.ReplaceAll(snap.tasks)
}

// Add appends a new task and returns it. The name is trimmed and must not be
// empty; the priority and due date must be valid. Nothing changes on error.
func (s *Store) Add(name string, priority Priority, dueDate string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, ErrEmptyName
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	if !ValidDueDate(dueDate) {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, dueDate)
	}

	t := Task{
		ID:       s.nextID,
		Name:     name,
		Priority: priority,
		DueDate:  dueDate,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Delete removes the task with the given id and returns its name.
// found is false, and the list untouched, when no task has that id.
func (s *Store) Delete(id int) (name string, found bool) {
	i := s.index(id)
	if i < 0 {
		return "", false
	}
	name = s.tasks[i].Name
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return name, true
}

// Edit applies a partial update to the task with the given id.
// found is false when no task has that id. A patch that would leave the name
// empty, set an unknown priority or a malformed date is rejected and nothing changes.
func (s *Store) Edit(id int, p Patch) (found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	t := s.tasks[i]
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return true, ErrEmptyName
		}
		t.Name = name
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return true, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		if !ValidDueDate(*p.DueDate) {
			return true, fmt.Errorf("%w: %q", ErrInvalidDueDate, *p.DueDate)
		}
		t.DueDate = *p.DueDate
	}
	s.tasks[i] = t
	return true, nil
}

// Reorder rearranges the list to follow ids. ids must contain every current
// id exactly once; any other input returns ErrOrderMismatch and leaves the
// list unchanged.
func (s *Store) Reorder(ids []int) error {
	if len(ids) != len(s.tasks) {
		return fmt.Errorf("%w: got %d ids for %d tasks", ErrOrderMismatch, len(ids), len(s.tasks))
	}

	byID := make(map[int]Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}

	reordered := make([]Task, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %d", ErrOrderMismatch, id)
		}
		delete(byID, id)
		reordered = append(reordered, t)
	}
	s.tasks = reordered
	return nil
}

// Clear removes every task.
func (s *Store) Clear() {
	s.tasks = nil
}

// ReplaceAll swaps in a copy of tasks without validation. It is the restore
// path for undo and redo. The id counter only moves forward, so ids handed
// out before stay unique.
func (s *Store) ReplaceAll(tasks []Task) {
	s.tasks = slices.Clone(tasks)
	for _, t := range s.tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
