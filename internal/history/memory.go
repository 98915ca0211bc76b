package history

import (
	"context"
	"sync"

	"server/internal/domain"
)

// MemoryStore keeps per-user history in process memory, newest first. It is
// the default store when no database is configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]domain.HistoryItem
	limit int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]domain.HistoryItem),
		limit: domain.HistoryLimit,
	}
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[userID]
	out := make([]domain.HistoryItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, userID string, item domain.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append([]domain.HistoryItem{item}, s.items[userID]...)
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	s.items[userID] = items
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[userID]
	for i, item := range items {
		if item.ID == itemID {
			s.items[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return domain.ErrHistoryItemNotFound
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

var _ domain.HistoryStore = (*MemoryStore)(nil)
