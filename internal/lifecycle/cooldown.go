package lifecycle

import (
	"sync"
	"time"

	"server/internal/domain"
)

// CooldownTracker enforces a per-user, per-kind pause between generation
// attempts. Every attempt starts the clock, successful or not.
type CooldownTracker struct {
	mu       sync.Mutex
	period   time.Duration
	attempts map[cooldownKey]time.Time
	now      func() time.Time
}

type cooldownKey struct {
	userID string
	kind   domain.GenerationKind
}

func NewCooldownTracker(period time.Duration) *CooldownTracker {
	return &CooldownTracker{
		period:   period,
		attempts: make(map[cooldownKey]time.Time),
		now:      time.Now,
	}
}

// Remaining returns how long the user must still wait before the next
// attempt of this kind, or zero when the attempt may proceed.
func (t *CooldownTracker) Remaining(userID string, kind domain.GenerationKind) time.Duration {
	if t.period <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.attempts[cooldownKey{userID: userID, kind: kind}]
	if !ok {
		return 0
	}
	remaining := t.period - t.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Touch records an attempt now, restarting the cooldown window.
func (t *CooldownTracker) Touch(userID string, kind domain.GenerationKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[cooldownKey{userID: userID, kind: kind}] = t.now()
}
