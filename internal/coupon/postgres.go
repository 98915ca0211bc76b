package coupon

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// PostgresRepository backs coupons with the shared SQL runner. The redeem
// update is conditional on status so only one concurrent caller can win.
type PostgresRepository struct {
	sql infra.SQLExecutor
}

func NewPostgresRepository(sql infra.SQLExecutor) *PostgresRepository {
	return &PostgresRepository{sql: sql}
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetCouponByCode, code)
	var coupon domain.Coupon
	if err := row.Scan(&coupon.Code, &coupon.Status, &coupon.GeneratedOn, &coupon.RedeemedOn, &coupon.RedeemedBy); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return &coupon, nil
}

func (r *PostgresRepository) Redeem(ctx context.Context, code, redeemedBy string, at time.Time) (*domain.Coupon, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QRedeemCoupon, code, redeemedBy, at)
	if err != nil {
		return nil, fmt.Errorf("redeem coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing code from a spent one.
		coupon, err := r.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if coupon.Status == domain.CouponRedeemed {
			return nil, domain.ErrCouponRedeemed
		}
		return nil, domain.ErrCouponNotFound
	}
	return r.GetByCode(ctx, code)
}

func (r *PostgresRepository) Create(ctx context.Context, coupon domain.Coupon) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateCoupon, coupon.Code, coupon.GeneratedOn); err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCoupons)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var coupon domain.Coupon
		if err := rows.Scan(&coupon.Code, &coupon.Status, &coupon.GeneratedOn, &coupon.RedeemedOn, &coupon.RedeemedBy); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

var _ domain.CouponRepository = (*PostgresRepository)(nil)
