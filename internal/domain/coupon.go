package domain

import (
	"context"
	"time"
)

type CouponStatus string

const (
	CouponAvailable CouponStatus = "Available"
	CouponRedeemed  CouponStatus = "Redeemed"
)

// Coupon is a single-use promotional code. Status transitions
// Available -> Redeemed exactly once and never back.
type Coupon struct {
	Code        string       `json:"code"`
	Status      CouponStatus `json:"status"`
	GeneratedOn time.Time    `json:"generated_on"`
	RedeemedOn  *time.Time   `json:"redeemed_on,omitempty"`
	RedeemedBy  string       `json:"redeemed_by,omitempty"`
}

// CouponRepository owns coupon state. Redeem performs the single-use
// transition atomically, recording the redeemer and timestamp; it returns
// ErrCouponNotFound for unknown codes and ErrCouponRedeemed when the code
// was already spent. Codes are matched case-insensitively.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Redeem(ctx context.Context, code, redeemedBy string, at time.Time) (*Coupon, error)
	Create(ctx context.Context, coupon Coupon) error
	List(ctx context.Context) ([]Coupon, error)
}
