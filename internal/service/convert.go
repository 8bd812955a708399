package service

import (
	"bufio"
	"strings"
	"time"

	"taskdeck/internal/task"
)

// priorityPrefix marks the notes line that carries a task's priority.
const priorityPrefix = "priority:"

// FromLocal maps a local task to a remote one. The priority is kept in the
// notes since the remote service has no such field.
func FromLocal(t task.Task) Task {
	r := Task{
		Title: t.Name,
		Notes: priorityPrefix + " " + string(t.Priority),
	}
	if d, ok := t.Due(); ok {
		r.Due = d.Format(time.RFC3339)
	}
	return r
}

// ToLocal maps a remote task to a local draft with no id. A missing or
// unknown priority becomes medium; an unparsable due date is dropped.
func ToLocal(r Task) task.Task {
	t := task.Task{
		Name:     strings.TrimSpace(r.Title),
		Priority: priorityFromNotes(r.Notes),
	}
	if r.Due != "" {
		if d, err := time.Parse(time.RFC3339, r.Due); err == nil {
			t.DueDate = d.UTC().Format(task.DateLayout)
		}
	}
	return t
}

func priorityFromNotes(notes string) task.Priority {
	sc := bufio.NewScanner(strings.NewReader(notes))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) < len(priorityPrefix) || !strings.EqualFold(line[:len(priorityPrefix)], priorityPrefix) {
			continue
		}
		if p, err := task.ParsePriority(line[len(priorityPrefix):]); err == nil {
			return p
		}
	}
	return task.Medium
}
