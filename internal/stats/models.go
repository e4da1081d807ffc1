package stats

import (
	"foundry/internal/review"
	id "foundry/pkg/domain"
)

// MonthlyCount is one month of an aggregated series, keyed "YYYY-MM".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// SentimentBreakdown counts a startup's reviews by label.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// StartupStats is the owner dashboard. Every number is computed from
// stored rows; nothing here is illustrative.
type StartupStats struct {
	StartupID       id.StartupID               `json:"startup_id"`
	ReviewCount     int                        `json:"review_count"`
	AverageRating   float64                    `json:"average_rating"`
	PendingReplies  int                        `json:"pending_replies"`
	ViewCount       int                        `json:"view_count"`
	RecentReviews   []*review.ReviewWithAuthor `json:"recent_reviews"`
	Sentiment       SentimentBreakdown         `json:"sentiment"`
	ViewsByMonth    []MonthlyCount             `json:"views_by_month"`
	ReviewsByMonth  []MonthlyCount             `json:"reviews_by_month"`
}

// PlatformStats is the admin dashboard.
type PlatformStats struct {
	TotalUsers       int            `json:"total_users"`
	TotalStartups    int            `json:"total_startups"`
	PendingStartups  int            `json:"pending_startups"`
	ApprovedStartups int            `json:"approved_startups"`
	RejectedStartups int            `json:"rejected_startups"`
	TotalReviews     int            `json:"total_reviews"`
	TotalViews       int            `json:"total_views"`
	ActiveJobs       int            `json:"active_jobs"`
	SignupsByMonth   []MonthlyCount `json:"signups_by_month"`
}
