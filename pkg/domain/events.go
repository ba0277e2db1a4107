package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventDispatch     EventType = "dispatch"
	EventSliceApplied EventType = "slice_applied"
	EventStateChange  EventType = "state_change"
	EventError        EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent describes one dispatch cycle. It is emitted once when the
// action enters the store and once more, with Duration set, if the cycle
// changed any sub-state.
type DispatchEvent struct {
	EventBase
	ActionType string        `json:"action_type"`
	Version    uint64        `json:"version"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// SliceEvent describes one reducer application within a dispatch cycle.
type SliceEvent struct {
	EventBase
	ActionType string `json:"action_type"`
	Key        string `json:"key"`
	Changed    bool   `json:"changed"`
}

// ErrorEvent describes a reducer failure.
type ErrorEvent struct {
	EventBase
	ActionType string `json:"action_type"`
	Key        string `json:"key"`
	Err        error  `json:"-"`
}

// LifecycleHooks defines callbacks for store observability.
// Hooks run synchronously inside the dispatch cycle and must not call back
// into the store.
type LifecycleHooks struct {
	OnDispatch     func(context.Context, *DispatchEvent)
	OnSliceApplied func(context.Context, *SliceEvent)
	OnStateChange  func(context.Context, *DispatchEvent)
	OnError        func(context.Context, *ErrorEvent)
}
