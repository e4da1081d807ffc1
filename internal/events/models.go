// Package events carries the domain events emitted by the directory:
// signups, startup lifecycle changes, reviews, and counted views. Services
// emit best-effort; a lost event never fails the request that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type labels what happened.
type Type string

const (
	TypeUserSignedUp      Type = "user.signed_up"
	TypeStartupRegistered Type = "startup.registered"
	TypeStartupApproved   Type = "startup.approved"
	TypeStartupRejected   Type = "startup.rejected"
	TypeReviewCreated     Type = "review.created"
	TypeViewRecorded      Type = "view.recorded"
)

// Event is the envelope all sinks receive.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	// Subject is the ID of the entity the event is about.
	Subject string `json:"subject"`
	// Actor is the acting user ID, or "anonymous" for cookie-only viewers.
	Actor string            `json:"actor,omitempty"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// New builds an event with a fresh ID.
func New(eventType Type, occurredAt time.Time, subject, actor string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt,
		Subject:    subject,
		Actor:      actor,
	}
}

// Publisher delivers domain events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
