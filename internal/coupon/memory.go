package coupon

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"server/internal/domain"
)

// MemoryRepository keeps coupons in process memory, keyed by upper-cased
// code.
type MemoryRepository struct {
	mu      sync.Mutex
	coupons map[string]*domain.Coupon
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{coupons: make(map[string]*domain.Coupon)}
}

// NewSeededRepository returns a repository preloaded with demo coupons, used
// when no database is configured.
func NewSeededRepository() *MemoryRepository {
	repo := NewMemoryRepository()
	redeemedOn := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	seed := []domain.Coupon{
		{
			Code:        "RAYYAN99110",
			Status:      domain.CouponAvailable,
			GeneratedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Code:        "VELORA-USED-123",
			Status:      domain.CouponRedeemed,
			GeneratedOn: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			RedeemedOn:  &redeemedOn,
			RedeemedBy:  "used@example.com",
		},
	}
	for _, c := range seed {
		repo.Create(context.Background(), c)
	}
	return repo
}

func (r *MemoryRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (r *MemoryRepository) Redeem(ctx context.Context, code, redeemedBy string, at time.Time) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	coupon, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	if coupon.Status != domain.CouponAvailable {
		return nil, domain.ErrCouponRedeemed
	}
	coupon.Status = domain.CouponRedeemed
	coupon.RedeemedOn = &at
	coupon.RedeemedBy = redeemedBy
	clone := *coupon
	return &clone, nil
}

func (r *MemoryRepository) Create(ctx context.Context, coupon domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := coupon
	r.coupons[strings.ToUpper(coupon.Code)] = &c
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GeneratedOn.Equal(out[j].GeneratedOn) {
			return out[i].GeneratedOn.After(out[j].GeneratedOn)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

var _ domain.CouponRepository = (*MemoryRepository)(nil)
