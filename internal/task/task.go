// Package task holds the ordered task list and the mutations allowed on it.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the due date format (the value of an HTML date input).
const DateLayout = "2006-01-02"

// Priority is a task priority.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

var (
	// ErrEmptyName is returned when a task name is empty after trimming.
	ErrEmptyName = errors.New("task name cannot be empty")

	// ErrInvalidPriority is returned for a priority other than low, medium or high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDueDate is returned for a due date not in DateLayout.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrOrderMismatch is returned by Reorder when the ids are not a
	// permutation of the current ids.
	ErrOrderMismatch = errors.New("order does not match the task list")
)

// Rank orders priorities: high 3, medium 2, low 1. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority parses a priority name (case-insensitive, trimmed).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task is a single entry in the list.
type Task struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Priority Priority `json:"priority" yaml:"priority"`
	DueDate  string   `json:"dueDate" yaml:"dueDate"`
}

// Due parses the due date. ok is false when the date is empty or malformed.
func (t Task) Due() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ValidDueDate reports whether s is empty or a date in DateLayout.
func ValidDueDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Patch is a partial update for Edit. Nil fields are left unchanged.
type Patch struct {
	Name     *string
	Priority *Priority
	DueDate  *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Priority == nil && p.DueDate == nil
}
