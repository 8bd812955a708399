package task

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

// SortKey names a sort order.
type SortKey string

const (
	ByPriority SortKey = "priority"
	ByDueDate  SortKey = "date"
	ByName     SortKey = "name"
)

// ParseSortKey accepts "priority", "date" (or "due") and "name".
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priority":
		return ByPriority, nil
	case "date", "due":
		return ByDueDate, nil
	case "name":
		return ByName, nil
	}
	return "", fmt.Errorf("unknown sort key: %s", s)
}

// Sort orders the list by key.
func (s *Store) Sort(key SortKey) error {
	switch key {
	case ByPriority:
		s.SortByPriority()
	case ByDueDate:
		s.SortByDueDate()
	case ByName:
		s.SortByName()
	default:
		return fmt.Errorf("unknown sort key: %s", key)
	}
	return nil
}

// SortByPriority orders high before medium before low. Equal priorities keep
// their relative order.
func (s *Store) SortByPriority() {
	slices.SortStableFunc(s.tasks, func(a, b Task) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
}

// SortByDueDate orders by due date, earliest first. Tasks without a
// parseable date go last. Ties keep their relative order.
func (s *Store) SortByDueDate() {
	slices.SortStableFunc(s.tasks, func(a, b Task) int {
		da, okA := a.Due()
		db, okB := b.Due()
		switch {
		case okA && okB:
			return da.Compare(db)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
}

// SortByName orders names with the store's locale collation.
func (s *Store) SortByName() {
	c := collate.New(s.locale)
	slices.SortStableFunc(s.tasks, func(a, b Task) int {
		return c.CompareString(a.Name, b.Name)
	})
}
