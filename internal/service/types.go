package service

// Task represents a single remote task item.
type Task struct {
	ID       string
	Title    string
	Notes    string
	Due      string // RFC 3339 timestamp; only the date part is meaningful
	Position string
	Status   string // "needsAction" or "completed"
}

// TaskList represents a remote task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
