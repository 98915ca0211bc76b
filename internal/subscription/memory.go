package subscription

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
)

// MemoryStore keeps subscriptions in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	subs map[string]*domain.UserSubscription
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[string]*domain.UserSubscription),
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[userID]
	if !ok {
		return nil, domain.ErrNoSubscription
	}
	clone := *sub
	return &clone, nil
}

// SetPlan replaces the subscription and resets both usage counters.
func (s *MemoryStore) SetPlan(ctx context.Context, userID string, plan domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[userID] = &domain.UserSubscription{
		Plan:      plan,
		StartDate: s.now().UTC(),
	}
	return nil
}

func (s *MemoryStore) IncrementUsage(ctx context.Context, userID string, kind domain.GenerationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[userID]
	if !ok {
		return domain.ErrNoSubscription
	}
	if kind.IsVideo() {
		sub.VideoCount++
	} else {
		sub.ImageCount++
	}
	return nil
}

var _ domain.SubscriptionStore = (*MemoryStore)(nil)
