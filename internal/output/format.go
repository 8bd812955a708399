// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskdeck/internal/service"
	"taskdeck/internal/task"
)

const (
	// EmptyList is printed in place of an empty task list.
	EmptyList = "no tasks"

	// DisplayDateLayout is how due dates are shown.
	DisplayDateLayout = "Jan 2, 2006"
)

// FormatTask formats a task line for the list.
// Format: "{N:>4}  #{ID}  {NAME}  [{PRIORITY}]  due {DATE}\n"
// The due part is omitted when the task has no due date.
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  #%d  %s  [%s]", num, t.ID, normalizeTitle(t.Name), t.Priority)
	if t.DueDate != "" {
		fmt.Fprintf(w, "  due %s", FormatDue(t.DueDate))
	}
	fmt.Fprintln(w)
}

// FormatTasks writes every task with 1-based positions, or EmptyList.
func FormatTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatDue renders a stored due date for display. Dates that don't parse
// are shown as stored.
func FormatDue(due string) string {
	d, err := time.Parse(task.DateLayout, due)
	if err != nil {
		return due
	}
	return d.Format(DisplayDateLayout)
}

// FormatListName formats a remote list name for the lists command.
func FormatListName(w io.Writer, list service.TaskList) {
	title := normalizeListTitle(list.Title)
	if list.IsDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

// normalizeTitle normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
