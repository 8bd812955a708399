package commands

import (
	"errors"
	"slices"
	"testing"
)

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		arg  string
		want int
	}{
		{"5", 5},
		{"#5", 5},
		{"#12", 12},
		{" 3 ", 3},
	}
	for _, tt := range tests {
		got, err := ParseTaskID(tt.arg)
		if err != nil {
			t.Errorf("ParseTaskID(%q): unexpected error: %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTaskID(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestParseTaskID_Invalid(t *testing.T) {
	for _, arg := range []string{"", "#", "abc", "a1", "0", "#0", "-1", "1.5", "##1", "٣"} {
		_, err := ParseTaskID(arg)
		if err == nil {
			t.Errorf("ParseTaskID(%q): expected error", arg)
			continue
		}
		expected := "invalid task id: " + arg
		if err.Error() != expected {
			t.Errorf("ParseTaskID(%q) error = %q, want %q", arg, err.Error(), expected)
		}
	}
}

func TestParseTaskIDs(t *testing.T) {
	got, err := ParseTaskIDs([]string{"#3", "1", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("got %v", got)
	}

	if _, err := ParseTaskIDs(nil); !errors.Is(err, ErrTaskIDRequired) {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}
	if _, err := ParseTaskIDs([]string{"1", "x"}); err == nil || err.Error() != "invalid task id: x" {
		t.Errorf("expected invalid task id: x, got %v", err)
	}
}

func TestParsePosition(t *testing.T) {
	if n, err := ParsePosition("2"); err != nil || n != 2 {
		t.Errorf("ParsePosition(2) = %d, %v", n, err)
	}
	for _, arg := range []string{"0", "-1", "first", ""} {
		if _, err := ParsePosition(arg); err == nil {
			t.Errorf("ParsePosition(%q): expected error", arg)
		}
	}
}
