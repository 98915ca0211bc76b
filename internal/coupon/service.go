package coupon

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// User-facing redemption messages.
const (
	msgInvalidCode     = "Invalid coupon code. Please check the code and try again."
	msgAlreadyRedeemed = "Your Coupon Code Was already Redeemed."
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Service wraps the repository with code generation and the redemption
// messages shown to users.
type Service struct {
	repo   domain.CouponRepository
	logger *infra.Logger
	now    func() time.Time
}

func NewService(repo domain.CouponRepository, logger *infra.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// RedeemError carries the user-facing message for a failed redemption.
type RedeemError struct {
	Message string
	Err     error
}

func (e *RedeemError) Error() string { return e.Message }
func (e *RedeemError) Unwrap() error { return e.Err }

// Redeem spends the coupon for the given user. The single-use transition is
// delegated to the repository so concurrent redemptions cannot both win.
func (s *Service) Redeem(ctx context.Context, code, userEmail string) (*domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, &RedeemError{Message: msgInvalidCode}
	}

	coupon, err := s.repo.Redeem(ctx, code, userEmail, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCouponNotFound):
			return nil, &RedeemError{Message: msgInvalidCode, Err: err}
		case errors.Is(err, domain.ErrCouponRedeemed):
			return nil, &RedeemError{Message: msgAlreadyRedeemed, Err: err}
		default:
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
	}

	s.logger.Info().
		Str("code", coupon.Code).
		Str("redeemed_by", userEmail).
		Msg("coupon redeemed")
	return coupon, nil
}

// Generate mints n fresh codes and stores them as available.
func (s *Service) Generate(ctx context.Context, n int) ([]domain.Coupon, error) {
	if n <= 0 {
		n = 1
	}
	coupons := make([]domain.Coupon, 0, n)
	for i := 0; i < n; i++ {
		code, err := newCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		c := domain.Coupon{
			Code:        code,
			Status:      domain.CouponAvailable,
			GeneratedOn: s.now().UTC(),
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("store coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

// newCode returns a code shaped VELORA-XXXX-XXXX.
func newCode() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	chars := make([]byte, 8)
	for i, b := range raw {
		chars[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("VELORA-%s-%s", chars[:4], chars[4:]), nil
}
