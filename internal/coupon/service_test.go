package coupon

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

func testService(repo domain.CouponRepository) *Service {
	logger := infra.Logger(zerolog.New(io.Discard))
	return NewService(repo, &logger)
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Create(ctx, domain.Coupon{
		Code:        "VELORA-AB12-CD34",
		Status:      domain.CouponAvailable,
		GeneratedOn: time.Now().UTC(),
	})
	svc := testService(repo)

	coupon, err := svc.Redeem(ctx, "velora-ab12-cd34", "alice@example.com")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if coupon.Status != domain.CouponRedeemed {
		t.Errorf("status = %q, want Redeemed", coupon.Status)
	}
	if coupon.RedeemedBy != "alice@example.com" {
		t.Errorf("redeemed by = %q", coupon.RedeemedBy)
	}
	if coupon.RedeemedOn == nil {
		t.Error("redeemed on not set")
	}
}

func TestRedeemSingleUse(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Create(ctx, domain.Coupon{
		Code:        "VELORA-AB12-CD34",
		Status:      domain.CouponAvailable,
		GeneratedOn: time.Now().UTC(),
	})
	svc := testService(repo)

	if _, err := svc.Redeem(ctx, "VELORA-AB12-CD34", "alice@example.com"); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	_, err := svc.Redeem(ctx, "VELORA-AB12-CD34", "bob@example.com")
	if err == nil {
		t.Fatal("second redeem must fail")
	}
	var redeemErr *RedeemError
	if !errors.As(err, &redeemErr) {
		t.Fatalf("error type = %T", err)
	}
	if redeemErr.Message != msgAlreadyRedeemed {
		t.Errorf("message = %q, want %q", redeemErr.Message, msgAlreadyRedeemed)
	}

	// The original redeemer must be preserved.
	coupon, _ := repo.GetByCode(ctx, "VELORA-AB12-CD34")
	if coupon.RedeemedBy != "alice@example.com" {
		t.Errorf("redeemed by = %q, want alice@example.com", coupon.RedeemedBy)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := testService(NewMemoryRepository())

	tests := []string{"VELORA-ZZZZ-ZZZZ", "", "   "}
	for _, code := range tests {
		_, err := svc.Redeem(context.Background(), code, "alice@example.com")
		var redeemErr *RedeemError
		if !errors.As(err, &redeemErr) {
			t.Fatalf("Redeem(%q) error type = %T", code, err)
		}
		if redeemErr.Message != msgInvalidCode {
			t.Errorf("Redeem(%q) message = %q, want %q", code, redeemErr.Message, msgInvalidCode)
		}
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := testService(repo)

	coupons, err := svc.Generate(ctx, 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(coupons) != 5 {
		t.Fatalf("generated = %d, want 5", len(coupons))
	}

	shape := regexp.MustCompile(`^VELORA-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	seen := make(map[string]bool)
	for _, c := range coupons {
		if !shape.MatchString(c.Code) {
			t.Errorf("code %q does not match the expected shape", c.Code)
		}
		if seen[c.Code] {
			t.Errorf("duplicate code %q", c.Code)
		}
		seen[c.Code] = true
		if c.Status != domain.CouponAvailable {
			t.Errorf("status = %q, want Available", c.Status)
		}
	}

	stored, _ := repo.List(ctx)
	if len(stored) != 5 {
		t.Errorf("stored = %d, want 5", len(stored))
	}
}

func TestSeededRepository(t *testing.T) {
	repo := NewSeededRepository()

	available, err := repo.GetByCode(context.Background(), "rayyan99110")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if available.Status != domain.CouponAvailable {
		t.Errorf("seed status = %q", available.Status)
	}

	_, err = repo.Redeem(context.Background(), "VELORA-USED-123", "x@example.com", time.Now())
	if !errors.Is(err, domain.ErrCouponRedeemed) {
		t.Errorf("redeeming spent seed = %v, want ErrCouponRedeemed", err)
	}
}
