package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDeclare  EventType = "declare"
	EventDispatch EventType = "dispatch"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DeclareEvent is emitted once per successful declaration.
type DeclareEvent struct {
	EventBase
	Action string `json:"action"`
}

// DispatchEvent is emitted at the end of every dispatch cycle.
type DispatchEvent struct {
	EventBase
	CycleID    string        `json:"cycle_id"`
	Action     string        `json:"action"`
	Middleware int           `json:"middleware"`
	Effects    int           `json:"effects"`
	Duration   time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for pipeline observability.
// Hooks are purely observational.
type LifecycleHooks struct {
	OnDeclare  func(*DeclareEvent)
	OnDispatch func(*DispatchEvent)
}

// Merge returns hooks calling h then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDeclare: func(e *DeclareEvent) {
			if h.OnDeclare != nil {
				h.OnDeclare(e)
			}
			if other.OnDeclare != nil {
				other.OnDeclare(e)
			}
		},
		OnDispatch: func(e *DispatchEvent) {
			if h.OnDispatch != nil {
				h.OnDispatch(e)
			}
			if other.OnDispatch != nil {
				other.OnDispatch(e)
			}
		},
	}
}
