package session

import (
	"context"
	"errors"
	"slices"
	"testing"

	"taskdeck/internal/task"
	"taskdeck/internal/testutil"
)

func names(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func assertNames(t *testing.T, s *Session, want ...string) {
	t.Helper()
	got := names(s.Tasks())
	if !slices.Equal(got, want) {
		t.Errorf("tasks = %v, want %v", got, want)
	}
}

// openWith opens a session over an empty store seeded with the named tasks.
func openWith(t *testing.T, kv *testutil.MemoryStore, maxHistory int, seed ...string) *Session {
	t.Helper()
	tasks := make([]task.Task, 0, len(seed))
	for i, name := range seed {
		tasks = append(tasks, task.Task{ID: i + 1, Name: name, Priority: task.Medium})
	}
	s, err := Open(context.Background(), kv, Options{MaxHistory: maxHistory, Seed: tasks})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpen_EmptyStorageUsesSeed(t *testing.T) {
	kv := testutil.NewMemoryStore()

	s, err := Open(context.Background(), kv, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !s.Seeded() {
		t.Error("expected Seeded() on empty storage")
	}
	assertNames(t, s, "Finish project", "Buy groceries", "Call mom")
	if kv.Puts() != 0 {
		t.Errorf("opening should not write, got %d puts", kv.Puts())
	}
	if s.CanUndo() {
		t.Error("fresh session should have nothing to undo")
	}
}

func TestOpen_LoadsSavedList(t *testing.T) {
	kv := testutil.NewMemoryStore()
	kv.Set(TasksKey, `[{"id":7,"name":"Saved","priority":"low","dueDate":""}]`)

	s, err := Open(context.Background(), kv, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Seeded() {
		t.Error("did not expect Seeded() with a saved list")
	}
	assertNames(t, s, "Saved")

	added, err := s.Add(context.Background(), "Next", task.Low, "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID != 8 {
		t.Errorf("new id = %d, want 8", added.ID)
	}
}

func TestOpen_SavedEmptyListIsNotSeeded(t *testing.T) {
	kv := testutil.NewMemoryStore()
	kv.Set(TasksKey, `[]`)

	s, err := Open(context.Background(), kv, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Tasks()) != 0 {
		t.Errorf("expected empty list, got %v", names(s.Tasks()))
	}
}

func TestOpen_CorruptStorageUsesSeed(t *testing.T) {
	for _, raw := range []string{`{not json`, `null`, `[{"id":1,"name":"x","priority":"urgent"}]`} {
		kv := testutil.NewMemoryStore()
		kv.Set(TasksKey, raw)

		s, err := Open(context.Background(), kv, Options{})
		if err != nil {
			t.Fatalf("Open(%q): %v", raw, err)
		}
		if !s.Seeded() {
			t.Errorf("Open(%q): expected seed fallback", raw)
		}
		if len(s.Tasks()) != 3 {
			t.Errorf("Open(%q): got %d tasks, want the 3 seed tasks", raw, len(s.Tasks()))
		}
	}
}

func TestOpen_StorageError(t *testing.T) {
	kv := testutil.NewMemoryStore()
	kv.GetErr = errors.New("connection refused")

	_, err := Open(context.Background(), kv, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, kv.GetErr) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

func TestAddUndoRedo(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	if _, err := s.Add(ctx, "B", task.High, ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	assertNames(t, s, "A", "B")

	if err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertNames(t, s, "A")

	if err := s.Redo(ctx); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	assertNames(t, s, "A", "B")

	if err := s.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("second Redo: expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndo_Chain(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A")

	s.Add(ctx, "B", task.Low, "")
	s.Add(ctx, "C", task.Low, "")
	s.Delete(ctx, 1)
	assertNames(t, s, "B", "C")

	for _, want := range [][]string{{"A", "B", "C"}, {"A", "B"}, {"A"}} {
		if err := s.Undo(ctx); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		assertNames(t, s, want...)
	}
	if err := s.Undo(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	assertNames(t, s, "A")
}

func TestUndo_NothingToUndo(t *testing.T) {
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	if err := s.Undo(context.Background()); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if kv.Puts() != 0 {
		t.Errorf("failed undo should not write, got %d puts", kv.Puts())
	}
}

func TestUndo_PersistsRestoredList(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	s.Add(ctx, "B", task.Low, "")
	if err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	raw, ok := kv.Value(TasksKey)
	if !ok {
		t.Fatal("nothing saved")
	}
	saved, err := task.Deserialize([]byte(raw))
	if err != nil {
		t.Fatalf("saved list unreadable: %v", err)
	}
	if !slices.Equal(saved, s.Tasks()) {
		t.Errorf("saved %v, in memory %v", saved, s.Tasks())
	}
}

func TestSort_TwiceMakesOneHistoryEntry(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s, err := Open(ctx, kv, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	changed, err := s.Sort(ctx, task.ByName)
	if err != nil || !changed {
		t.Fatalf("first Sort = %v, %v; want true, nil", changed, err)
	}
	past, _ := s.HistoryLen()
	puts := kv.Puts()

	changed, err = s.Sort(ctx, task.ByName)
	if err != nil || changed {
		t.Fatalf("second Sort = %v, %v; want false, nil", changed, err)
	}
	if p, _ := s.HistoryLen(); p != past {
		t.Errorf("history grew from %d to %d on a no-op sort", past, p)
	}
	if kv.Puts() != puts {
		t.Error("no-op sort should not write")
	}

	// One undo is enough to get back to the unsorted seed order.
	if err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertNames(t, s, "Finish project", "Buy groceries", "Call mom")
}

func TestSort_ByPriorityOnSeed(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, testutil.NewMemoryStore(), Options{})

	// The seed is already high, medium, low.
	changed, err := s.Sort(ctx, task.ByPriority)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if changed {
		t.Error("seed is already in priority order")
	}

	changed, _ = s.Sort(ctx, task.ByDueDate)
	if !changed {
		t.Error("expected due-date sort to change the seed order")
	}
	assertNames(t, s, "Call mom", "Buy groceries", "Finish project")
}

func TestHistory_Bound(t *testing.T) {
	ctx := context.Background()
	const maxHistory = 3
	s := openWith(t, testutil.NewMemoryStore(), maxHistory, "A")

	for _, name := range []string{"B", "C", "D", "E", "F"} {
		if _, err := s.Add(ctx, name, task.Low, ""); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if past, _ := s.HistoryLen(); past > maxHistory {
		t.Errorf("history holds %d states, bound is %d", past, maxHistory)
	}

	undos := 0
	for s.Undo(ctx) == nil {
		undos++
	}
	if undos != maxHistory-1 {
		t.Errorf("undid %d times, want %d", undos, maxHistory-1)
	}
	// Only the newest maxHistory states survive.
	assertNames(t, s, "A", "B", "C", "D")
}

func TestRedo_BranchInvalidation(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A")

	s.Add(ctx, "B", task.Low, "")
	if err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !s.CanRedo() {
		t.Fatal("expected redo to be available after undo")
	}

	s.Add(ctx, "C", task.Low, "")
	if s.CanRedo() {
		t.Error("a new action should drop the redo branch")
	}
	if err := s.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	assertNames(t, s, "A", "C")

	if err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertNames(t, s, "A")
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	name, found, err := s.Delete(context.Background(), 99)
	if err != nil || found || name != "" {
		t.Errorf("Delete(99) = %q, %v, %v; want \"\", false, nil", name, found, err)
	}
	if kv.Puts() != 0 {
		t.Errorf("no-op delete wrote %d times", kv.Puts())
	}
	if s.CanUndo() {
		t.Error("no-op delete should not create a history entry")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A", "B")

	name, found, err := s.Delete(ctx, 1)
	if err != nil || !found || name != "A" {
		t.Fatalf("Delete(1) = %q, %v, %v", name, found, err)
	}
	assertNames(t, s, "B")
}

func TestAdd_RejectedLeavesNoTrace(t *testing.T) {
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	if _, err := s.Add(context.Background(), "   ", task.Low, ""); !errors.Is(err, task.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if kv.Puts() != 0 || s.CanUndo() {
		t.Error("rejected add should not write or checkpoint")
	}
	assertNames(t, s, "A")
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A")
	name := "Renamed"
	high := task.High

	found, err := s.Edit(ctx, 1, task.Patch{Name: &name, Priority: &high})
	if err != nil || !found {
		t.Fatalf("Edit = %v, %v", found, err)
	}
	got, _ := s.Get(1)
	if got.Name != "Renamed" || got.Priority != task.High {
		t.Errorf("got %+v", got)
	}

	s.Undo(ctx)
	got, _ = s.Get(1)
	if got.Name != "A" || got.Priority != task.Medium {
		t.Errorf("after undo got %+v", got)
	}
}

func TestEdit_UnknownID(t *testing.T) {
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")
	name := "x"

	found, err := s.Edit(context.Background(), 42, task.Patch{Name: &name})
	if err != nil || found {
		t.Errorf("Edit(42) = %v, %v; want false, nil", found, err)
	}
	if kv.Puts() != 0 {
		t.Error("edit of unknown id should not write")
	}
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A", "B", "C")

	if err := s.Reorder(ctx, []int{3, 1, 2}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertNames(t, s, "C", "A", "B")

	if err := s.Reorder(ctx, []int{1, 2}); !errors.Is(err, task.ErrOrderMismatch) {
		t.Errorf("expected ErrOrderMismatch, got %v", err)
	}
	assertNames(t, s, "C", "A", "B")

	s.Undo(ctx)
	assertNames(t, s, "A", "B", "C")
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		id   int
		pos  int
		want []string
	}{
		{"to front", 3, 0, []string{"C", "A", "B"}},
		{"to middle", 1, 1, []string{"B", "A", "C"}},
		{"past end clamps", 1, 10, []string{"B", "C", "A"}},
		{"negative clamps", 2, -4, []string{"B", "A", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openWith(t, testutil.NewMemoryStore(), 0, "A", "B", "C")
			found, err := s.Move(context.Background(), tt.id, tt.pos)
			if err != nil || !found {
				t.Fatalf("Move = %v, %v", found, err)
			}
			assertNames(t, s, tt.want...)
		})
	}
}

func TestMove_UnknownID(t *testing.T) {
	s := openWith(t, testutil.NewMemoryStore(), 0, "A")

	found, err := s.Move(context.Background(), 9, 0)
	if err != nil || found {
		t.Errorf("Move(9) = %v, %v; want false, nil", found, err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 0, "A", "B")

	n, err := s.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	assertNames(t, s)

	s.Undo(ctx)
	assertNames(t, s, "A", "B")
}

func TestImport_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	_, err := s.Import(ctx, []task.Task{
		{Name: "ok", Priority: task.Low},
		{Name: "bad", Priority: task.Priority("urgent")},
	})
	if !errors.Is(err, task.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	assertNames(t, s, "A")
	if kv.Puts() != 0 {
		t.Error("failed import should not write")
	}

	added, err := s.Import(ctx, []task.Task{
		{ID: 500, Name: "X", Priority: task.High, DueDate: "2024-05-01"},
		{Name: "Y", Priority: task.Low},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(added) != 2 || added[0].ID == 500 {
		t.Errorf("added = %+v", added)
	}
	assertNames(t, s, "A", "X", "Y")

	// A whole import undoes in one step.
	s.Undo(ctx)
	assertNames(t, s, "A")
}

func TestPersistFailure_KeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")
	kv.PutErr = errors.New("disk full")

	_, err := s.Add(ctx, "B", task.Low, "")
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistError, got %v", err)
	}
	if !errors.Is(err, kv.PutErr) {
		t.Errorf("PersistError should wrap the storage error, got %v", err)
	}
	assertNames(t, s, "A", "B")

	// History still works without storage.
	if err := s.Undo(ctx); !errors.As(err, &pe) {
		t.Errorf("expected *PersistError from undo, got %v", err)
	}
	assertNames(t, s, "A")

	kv.PutErr = nil
	if err := s.Redo(ctx); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if _, ok := kv.Value(TasksKey); !ok {
		t.Error("expected list saved once storage recovered")
	}
}

func TestAdd_SavesList(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0, "A")

	if _, err := s.Add(ctx, "B", task.High, "2024-02-29"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	raw, ok := kv.Value(TasksKey)
	if !ok {
		t.Fatal("list not saved")
	}
	want := `[{"id":1,"name":"A","priority":"medium","dueDate":""},{"id":2,"name":"B","priority":"high","dueDate":"2024-02-29"}]`
	if raw != want {
		t.Errorf("saved %s\nwant  %s", raw, want)
	}

	// A second session over the same storage sees the change.
	again, err := Open(ctx, kv, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	assertNames(t, again, "A", "B")
}

func TestClose(t *testing.T) {
	kv := testutil.NewMemoryStore()
	s := openWith(t, kv, 0)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !kv.Closed {
		t.Error("storage not closed")
	}
}

func TestDepth(t *testing.T) {
	ctx := context.Background()
	s := openWith(t, testutil.NewMemoryStore(), 3, "A")

	if u, r := s.Depth(); u != 0 || r != 0 {
		t.Fatalf("fresh Depth() = %d, %d", u, r)
	}

	s.Add(ctx, "B", task.Low, "")
	s.Add(ctx, "C", task.Low, "")
	if u, r := s.Depth(); u != 2 || r != 0 {
		t.Errorf("after two adds Depth() = %d, %d; want 2, 0", u, r)
	}

	// The bound caps the reported depth.
	s.Add(ctx, "D", task.Low, "")
	if u, _ := s.Depth(); u != 2 {
		t.Errorf("at the bound Depth() undo = %d, want 2", u)
	}

	s.Undo(ctx)
	if u, r := s.Depth(); u != 1 || r != 1 {
		t.Errorf("after undo Depth() = %d, %d; want 1, 1", u, r)
	}
}
