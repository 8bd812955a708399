// Package session ties the task list, its undo history and durable storage
// together. Every user action goes through a Session: the pre-action state is
// checkpointed, the action applied, and the new list written back.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"

	"taskdeck/internal/history"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

// TasksKey is the storage key the serialized list lives under.
const TasksKey = "tasks"

var (
	// ErrNothingToUndo is returned by Undo when the history holds no earlier state.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when nothing has been undone.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// PersistError reports that an action was applied in memory but the list
// could not be written to storage.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save tasks: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Options configures Open.
type Options struct {
	// MaxHistory bounds the undo history. Zero means history.DefaultMax.
	MaxHistory int

	// Locale drives name sorting.
	Locale language.Tag

	// Log receives load and save diagnostics. The zero value discards.
	Log logr.Logger

	// Seed is the list used when storage holds nothing usable.
	// Nil means DefaultSeed.
	Seed []task.Task
}

// Session is one user's working copy of the task list.
// It is not safe for concurrent use.
type Session struct {
	store  *task.Store
	hist   *history.Manager[task.Snapshot]
	kv     storage.Store
	log    logr.Logger
	seeded bool
}

// Open loads the list from kv. A missing or unreadable value falls back to
// the seed list; only a storage failure is returned as an error.
func Open(ctx context.Context, kv storage.Store, opts Options) (*Session, error) {
	log := opts.Log
	seed := opts.Seed
	if seed == nil {
		seed = DefaultSeed()
	}

	tasks, seeded, err := load(ctx, kv, log)
	if err != nil {
		return nil, err
	}
	if seeded {
		tasks = seed
	}

	store := task.NewStore(tasks, task.WithLocale(opts.Locale))
	s := &Session{
		store:  store,
		hist:   history.New(opts.MaxHistory, store.Snapshot(), task.Snapshot.Equal),
		kv:     kv,
		log:    log,
		seeded: seeded,
	}
	log.V(1).Info("session opened", "tasks", store.Len(), "seeded", seeded, "maxHistory", s.hist.Max())
	return s, nil
}

func load(ctx context.Context, kv storage.Store, log logr.Logger) (tasks []task.Task, seeded bool, err error) {
	raw, err := kv.Get(ctx, TasksKey)
	if errors.Is(err, storage.ErrNotFound) {
		log.V(1).Info("no saved tasks, using seed list")
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load tasks: %w", err)
	}

	tasks, err = task.Deserialize([]byte(raw))
	if err != nil {
		log.Error(err, "saved tasks are unreadable, using seed list")
		return nil, true, nil
	}
	return tasks, false, nil
}

// Seeded reports whether the session started from the seed list.
func (s *Session) Seeded() bool { return s.seeded }

// Tasks returns a copy of the current list.
func (s *Session) Tasks() []task.Task { return s.store.Tasks() }

// Get returns the task with the given id.
func (s *Session) Get(id int) (task.Task, bool) { return s.store.Get(id) }

// HistoryLen returns the sizes of the undo and redo stacks.
func (s *Session) HistoryLen() (past, future int) {
	return s.hist.Len(), s.hist.FutureLen()
}

// Depth returns how many Undo and Redo calls would currently succeed.
func (s *Session) Depth() (undo, redo int) {
	undo = s.hist.Len() - 1
	if !s.hist.Current().Equal(s.store.Snapshot()) {
		// Undo checkpoints the current state first, which may evict one.
		undo = min(undo+1, s.hist.Max()-1)
	}
	return undo, s.hist.FutureLen()
}

// CanUndo reports whether Undo has an earlier state to go back to.
func (s *Session) CanUndo() bool {
	undo, _ := s.Depth()
	return undo > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Add appends a task.
func (s *Session) Add(ctx context.Context, name string, priority task.Priority, dueDate string) (task.Task, error) {
	var added task.Task
	_, err := s.mutate(ctx, "add", func() error {
		var err error
		added, err = s.store.Add(name, priority, dueDate)
		return err
	})
	return added, err
}

// Delete removes a task and returns its name. An unknown id is a no-op.
func (s *Session) Delete(ctx context.Context, id int) (name string, found bool, err error) {
	_, err = s.mutate(ctx, "delete", func() error {
		name, found = s.store.Delete(id)
		return nil
	})
	return name, found, err
}

// Edit applies a partial update to a task.
func (s *Session) Edit(ctx context.Context, id int, p task.Patch) (found bool, err error) {
	_, err = s.mutate(ctx, "edit", func() error {
		var err error
		found, err = s.store.Edit(id, p)
		return err
	})
	return found, err
}

// Reorder rearranges the list to follow ids, which must be a permutation of
// the current ids.
func (s *Session) Reorder(ctx context.Context, ids []int) error {
	_, err := s.mutate(ctx, "reorder", func() error {
		return s.store.Reorder(ids)
	})
	return err
}

// Move places the task with the given id at a zero-based position, shifting
// the others. Positions past the end clamp to the last slot.
func (s *Session) Move(ctx context.Context, id, pos int) (found bool, err error) {
	tasks := s.store.Tasks()
	from := -1
	ids := make([]int, 0, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			from = i
			continue
		}
		ids = append(ids, t.ID)
	}
	if from < 0 {
		return false, nil
	}
	pos = max(0, min(pos, len(ids)))
	ids = slices.Insert(ids, pos, id)
	return true, s.Reorder(ctx, ids)
}

// Sort orders the list by key. changed is false when the list was already in
// that order; no history entry is made then.
func (s *Session) Sort(ctx context.Context, key task.SortKey) (changed bool, err error) {
	return s.mutate(ctx, "sort", func() error {
		return s.store.Sort(key)
	})
}

// Clear removes every task and returns how many were removed.
func (s *Session) Clear(ctx context.Context) (int, error) {
	n := s.store.Len()
	_, err := s.mutate(ctx, "clear", func() error {
		s.store.Clear()
		return nil
	})
	return n, err
}

// Import appends drafts as new tasks in one undoable step. Draft ids are
// ignored. If any draft is invalid nothing is added.
func (s *Session) Import(ctx context.Context, drafts []task.Task) ([]task.Task, error) {
	added := make([]task.Task, 0, len(drafts))
	_, err := s.mutate(ctx, "import", func() error {
		for i, d := range drafts {
			t, err := s.store.Add(d.Name, d.Priority, d.DueDate)
			if err != nil {
				return fmt.Errorf("task %d (%q): %w", i+1, d.Name, err)
			}
			added = append(added, t)
		}
		return nil
	})
	if err != nil && !isPersist(err) {
		return nil, err
	}
	return added, err
}

// Undo restores the previous state.
func (s *Session) Undo(ctx context.Context) error {
	// The current state has to be on the stack for Undo to step below it.
	s.hist.Capture(s.store.Snapshot())

	snap, ok := s.hist.Undo()
	if !ok {
		return ErrNothingToUndo
	}
	s.store.Restore(snap)
	return s.persist(ctx, "undo")
}

// Redo re-applies the most recently undone state.
func (s *Session) Redo(ctx context.Context) error {
	snap, ok := s.hist.Redo()
	if !ok {
		return ErrNothingToRedo
	}
	s.store.Restore(snap)
	return s.persist(ctx, "redo")
}

// Close releases the underlying storage.
func (s *Session) Close() error {
	return s.kv.Close()
}

// mutate checkpoints the pre-action state, runs apply and saves the result.
// A failed or no-op action leaves history and storage untouched.
func (s *Session) mutate(ctx context.Context, action string, apply func() error) (changed bool, err error) {
	before := s.store.Snapshot()
	if err := apply(); err != nil {
		s.store.Restore(before)
		return false, err
	}
	if s.store.Snapshot().Equal(before) {
		s.log.V(1).Info("no change", "action", action)
		return false, nil
	}

	s.hist.Capture(before)
	s.hist.DropRedo()
	return true, s.persist(ctx, action)
}

func (s *Session) persist(ctx context.Context, action string) error {
	data, err := s.store.Serialize()
	if err != nil {
		return &PersistError{Err: err}
	}
	if err := s.kv.Put(ctx, TasksKey, string(data)); err != nil {
		s.log.Error(err, "tasks not saved", "action", action)
		return &PersistError{Err: err}
	}
	s.log.V(1).Info("saved", "action", action, "tasks", s.store.Len())
	return nil
}

func isPersist(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
