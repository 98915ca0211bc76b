package domain

import (
	"context"
	"time"
)

// Plan is a static catalog entry. The catalog is read-only reference data;
// plans are never mutated at runtime.
type Plan struct {
	Name          string   `json:"name"`
	Price         string   `json:"price"`
	PriceDetails  string   `json:"price_details"`
	Features      []string `json:"features"`
	ImageLimit    int      `json:"image_limit"`
	VideoLimit    int      `json:"video_limit"`
	Highlight     bool     `json:"highlight,omitempty"`
	HighlightText string   `json:"highlight_text,omitempty"`
}

// UserSubscription tracks the active plan and usage counters for one user.
// Counters only ever increase within a subscription period; changing plan
// replaces the whole record and resets them.
type UserSubscription struct {
	Plan       Plan      `json:"plan"`
	ImageCount int       `json:"image_count"`
	VideoCount int       `json:"video_count"`
	StartDate  time.Time `json:"start_date"`
}

// Remaining returns how many generations of the given kind the plan still
// allows.
func (s *UserSubscription) Remaining(kind GenerationKind) int {
	if kind.IsVideo() {
		return s.Plan.VideoLimit - s.VideoCount
	}
	return s.Plan.ImageLimit - s.ImageCount
}

// AtLimit reports whether the usage counter for the kind has reached the
// plan ceiling.
func (s *UserSubscription) AtLimit(kind GenerationKind) bool {
	return s.Remaining(kind) <= 0
}

// SubscriptionStore exposes subscription state to the lifecycle manager and
// the plan handlers. Get returns ErrNoSubscription for unknown users.
// IncrementUsage adds exactly one to the counter matching the kind.
type SubscriptionStore interface {
	Get(ctx context.Context, userID string) (*UserSubscription, error)
	SetPlan(ctx context.Context, userID string, plan Plan) error
	IncrementUsage(ctx context.Context, userID string, kind GenerationKind) error
}
