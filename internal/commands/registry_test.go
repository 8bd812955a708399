package commands_test

import (
	"strings"
	"testing"

	"taskdeck/internal/commands"
)

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Register(&commands.ListCmd{}); err == nil || !strings.Contains(err.Error(), "already registered: list") {
		t.Errorf("expected duplicate name error, got %v", err)
	}
	if _, ok := r.Find("ls"); !ok {
		t.Error("alias ls should resolve")
	}
}

func TestDefaultRegistry(t *testing.T) {
	all := commands.DefaultRegistry.All()

	var got []string
	for _, c := range all {
		got = append(got, c.Name())
		if !strings.HasPrefix(c.Usage(), "taskdeck") {
			t.Errorf("%s: usage %q should start with taskdeck", c.Name(), c.Usage())
		}
		if c.Synopsis() == "" {
			t.Errorf("%s: missing synopsis", c.Name())
		}
	}

	want := "add clear edit export help import list lists login logout mv redo reorder report rm shell sort undo version"
	if strings.Join(got, " ") != want {
		t.Errorf("commands = %s\nwant %s", strings.Join(got, " "), want)
	}

	for _, alias := range []string{"ls", "create", "delete", "move", "repl", "pdf", "push", "pull"} {
		if _, ok := commands.DefaultRegistry.Find(alias); !ok {
			t.Errorf("alias %s not registered", alias)
		}
	}
}
