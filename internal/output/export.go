package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"taskdeck/internal/task"
)

// Format is a list output format.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML, CSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s (want text, json, yaml or csv)", s)
}

// WriteTasks writes tasks in the given format.
func WriteTasks(w io.Writer, tasks []task.Task, f Format) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch f {
	case Text, "":
		FormatTasks(w, tasks)
		return nil
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case CSV:
		return writeCSV(w, tasks)
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

func writeCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"position", "id", "name", "priority", "dueDate"}); err != nil {
		return err
	}
	for i, t := range tasks {
		if err := cw.Write([]string{strconv.Itoa(i + 1), strconv.Itoa(t.ID), t.Name, string(t.Priority), t.DueDate}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
