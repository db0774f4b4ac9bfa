package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Event mirrors a user-facing toast: what happened and for whom. Notifiers
// are pure sinks, the engine never reads anything back.
type Event struct {
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Detail  string    `json:"detail"`
	OwnerID string    `json:"owner_id"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event)
}

func Success(ownerID, title, detail string) Event {
	return Event{Kind: KindSuccess, Title: title, Detail: detail, OwnerID: ownerID, At: time.Now()}
}

func Error(ownerID, title, detail string) Event {
	return Event{Kind: KindError, Title: title, Detail: detail, OwnerID: ownerID, At: time.Now()}
}

// Noop drops every event, used when no broker is configured.
type Noop struct{}

func (Noop) Notify(context.Context, Event) {}
