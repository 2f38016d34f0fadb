package db

import "time"

// These constants refer to the storage keys of each section of the planner state. They match
// the keys of the browser version so documents map one to one.
const (
	KeyGuests = "guests"
	KeyTables = "tables"
	KeyUTable = "uTable"
	KeyTasks  = "tasks"
)

// Keys lists the storage keys in the order they are written.
func Keys() []string {
	return []string{KeyGuests, KeyTables, KeyUTable, KeyTasks}
}

// Entry is one stored section.
type Entry struct {
	Key             string
	Value           string
	UpdatedDatetime *time.Time
}
