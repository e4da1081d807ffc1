package view

import (
	"time"

	id "foundry/pkg/domain"
)

// View is one counted visit to a startup page. Rows are append-only;
// UserID is nil for anonymous visitors.
type View struct {
	ID        id.ViewID    `json:"id"`
	StartupID id.StartupID `json:"startup_id"`
	UserID    *id.UserID   `json:"user_id,omitempty"`
	ViewedAt  time.Time    `json:"viewed_at"`
}

// Result tells the caller whether this visit produced a new counted view.
type Result struct {
	Counted bool `json:"counted"`
}

func newView(startupID id.StartupID, userID *id.UserID, now time.Time) *View {
	return &View{
		ID:        id.NewViewID(),
		StartupID: startupID,
		UserID:    userID,
		ViewedAt:  now,
	}
}
