// Package history keeps a bounded undo/redo history of state snapshots.
//
// The past stack always holds at least one entry: the state the manager was
// created with, or the oldest survivor after eviction. Its top is the most
// recently checkpointed state. The future stack holds undone states until a
// new distinct state is captured.
package history

// DefaultMax is the default bound on the past stack.
const DefaultMax = 20

// Manager is a two-stack undo/redo history. It is not safe for concurrent use.
type Manager[T any] struct {
	past   []T
	future []T
	max    int
	equal  func(a, b T) bool
}

// New creates a manager seeded with initial. equal decides whether two
// snapshots are the same state. A max below 1 means DefaultMax.
func New[T any](max int, initial T, equal func(a, b T) bool) *Manager[T] {
	if max < 1 {
		max = DefaultMax
	}
	return &Manager[T]{
		past:  []T{initial},
		max:   max,
		equal: equal,
	}
}

// Capture records s as the newest state. It does nothing when s equals the
// current top, so repeated captures of an unchanged state collapse into one.
// Otherwise the redo branch is dropped and the oldest entry is evicted once
// the bound is exceeded.
func (m *Manager[T]) Capture(s T) {
	if m.equal(m.past[len(m.past)-1], s) {
		return
	}

	m.past = append(m.past, s)
	m.DropRedo()

	if len(m.past) > m.max {
		clear(m.past[:1])
		m.past = m.past[1:]
	}
}

// DropRedo discards the redo branch without touching the past stack.
func (m *Manager[T]) DropRedo() {
	clear(m.future)
	m.future = m.future[:0]
}

// Undo moves the top state to the redo stack and returns the state below it.
// ok is false when there is nothing to undo.
func (m *Manager[T]) Undo() (s T, ok bool) {
	if len(m.past) <= 1 {
		return s, false
	}

	top := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, top)
	return m.past[len(m.past)-1], true
}

// Redo moves the most recently undone state back onto the past stack and
// returns it. ok is false when there is nothing to redo.
func (m *Manager[T]) Redo() (s T, ok bool) {
	if len(m.future) == 0 {
		return s, false
	}

	next := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, next)
	return next, true
}

// Current returns the top of the past stack.
func (m *Manager[T]) Current() T {
	return m.past[len(m.past)-1]
}

// CanUndo reports whether Undo would succeed.
func (m *Manager[T]) CanUndo() bool { return len(m.past) > 1 }

// CanRedo reports whether Redo would succeed.
func (m *Manager[T]) CanRedo() bool { return len(m.future) > 0 }

// Len returns the size of the past stack, current state included.
func (m *Manager[T]) Len() int { return len(m.past) }

// FutureLen returns the size of the redo stack.
func (m *Manager[T]) FutureLen() int { return len(m.future) }

// Max returns the bound on the past stack.
func (m *Manager[T]) Max() int { return m.max }
