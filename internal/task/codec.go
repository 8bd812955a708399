package task

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes the current list as a JSON array of task records.
func (s *Store) Serialize() ([]byte, error) {
	return Marshal(s.tasks)
}

// Marshal encodes tasks as a JSON array. A nil list encodes as [].
func Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Deserialize decodes a JSON task array. Records with a repeated id or an
// unknown priority make the whole blob invalid.
func Deserialize(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		return nil, fmt.Errorf("decode tasks: not a task array")
	}

	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("decode tasks: duplicate id %d", t.ID)
		}
		seen[t.ID] = true
		if !t.Priority.Valid() {
			return nil, fmt.Errorf("decode tasks: task %d: %w: %q", t.ID, ErrInvalidPriority, t.Priority)
		}
	}
	return tasks, nil
}
