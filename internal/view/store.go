package view

import (
	"context"
	"time"

	id "foundry/pkg/domain"
)

// Store persists counted views.
type Store interface {
	Create(ctx context.Context, view *View) error
	// HasViewed reports whether a view row exists for this (startup, user)
	// pair. Anonymous visitors are never checked against the store.
	HasViewed(ctx context.Context, startupID id.StartupID, userID id.UserID) (bool, error)
	CountByStartup(ctx context.Context, startupID id.StartupID) (int, error)
}

// MarkerStore is the shared short-lived dedup layer in front of the view
// table. Markers expire after the dedup window; a missing marker store is
// tolerated and the flow falls back to cookie-plus-row checks.
type MarkerStore interface {
	// Mark records the (startup, viewer) marker with a TTL. It returns
	// true when the marker was newly set, false when it already existed.
	Mark(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}
