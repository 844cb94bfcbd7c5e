package engine

import "time"

// EventType names an engine lifecycle phase
type EventType string

const (
	EventLoad        EventType = "load"
	EventClassify    EventType = "classify"
	EventDerive      EventType = "derive"
	EventFilter      EventType = "filter"
	EventSort        EventType = "sort"
	EventPaginate    EventType = "paginate"
	EventMaterialize EventType = "materialize"
	EventWorker      EventType = "worker"
)

// Event represents a lifecycle event inside the engine
type Event struct {
	Type      EventType // Type of event
	SessionID string    // Session the event belongs to
	Timestamp time.Time // When the event occurred
	Data      any       // Phase-specific data (row counts, column names, ...)
}

// Observer interface for event subscribers.
// Observers are called synchronously, in registration order.
type Observer interface {
	OnEvent(event Event)
}
