package domain

import (
	"context"
	"time"
)

// HistoryLimit bounds the per-user history log. The oldest item is evicted
// first once the log is full.
const HistoryLimit = 50

// HistoryItem is one persisted generation outcome. Items are created only on
// successful resolution and are owned by a single user.
type HistoryItem struct {
	ID         string         `json:"id"`
	Type       GenerationKind `json:"type"`
	Prompt     string         `json:"prompt"`
	Outputs    []string       `json:"outputs"`
	Parameters map[string]any `json:"parameters"`
	CreatedAt  time.Time      `json:"created_at"`
}

// HistoryStore is the per-user bounded history log. List returns items
// newest first. Append silently drops the oldest entry beyond HistoryLimit.
type HistoryStore interface {
	List(ctx context.Context, userID string) ([]HistoryItem, error)
	Append(ctx context.Context, userID string, item HistoryItem) error
	Delete(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}
