package catalog

import "time"

// EventType represents the catalog lifecycle phases observers can watch
type EventType string

const (
	EventTableCreated  EventType = "table_created"
	EventTableDropped  EventType = "table_dropped"
	EventColumnAdded   EventType = "column_added"
	EventColumnRenamed EventType = "column_renamed"
	EventColumnDropped EventType = "column_dropped"
	EventFKValidated   EventType = "foreign_keys_validated"
)

// Event represents one catalog lifecycle event
type Event struct {
	Type      EventType   // Type of event
	Table     string      // Table the event concerns
	Column    string      // Column, for column-level events
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Event-specific data (e.g., new column name, row count)
}

// Observer interface for event subscribers
// Observers receive events after each catalog mutation
type Observer interface {
	OnEvent(event Event)
}
