package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventHop     EventType = "hop"
	EventRequest EventType = "request"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	TraversalID string    `json:"traversal_id,omitempty"`
}

// HopEvent is emitted each time a link relation is resolved to the next step.
type HopEvent struct {
	EventBase
	Index    int    `json:"index"`
	Relation string `json:"relation"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Embedded bool   `json:"embedded,omitempty"`
}

// RequestEvent is emitted after every HTTP request, successful or not.
type RequestEvent struct {
	EventBase
	Method     string        `json:"method"`
	URI        string        `json:"uri"`
	StatusCode int           `json:"status_code,omitempty"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for traversal observability.
type LifecycleHooks struct {
	OnHop     func(context.Context, *HopEvent)
	OnRequest func(context.Context, *RequestEvent)
}

// EmitHop calls OnHop when set.
func (h LifecycleHooks) EmitHop(ctx context.Context, e *HopEvent) {
	if h.OnHop != nil {
		h.OnHop(ctx, e)
	}
}

// EmitRequest calls OnRequest when set.
func (h LifecycleHooks) EmitRequest(ctx context.Context, e *RequestEvent) {
	if h.OnRequest != nil {
		h.OnRequest(ctx, e)
	}
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnHop: func(ctx context.Context, e *HopEvent) {
			h.EmitHop(ctx, e)
			other.EmitHop(ctx, e)
		},
		OnRequest: func(ctx context.Context, e *RequestEvent) {
			h.EmitRequest(ctx, e)
			other.EmitRequest(ctx, e)
		},
	}
}
