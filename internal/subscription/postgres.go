package subscription

import (
	"context"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// PostgresStore persists subscriptions keyed by user id. Only the plan name
// is stored; limits and pricing come from the catalog so plan changes ship
// without migrations.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QGetSubscription, userID)
	var sub domain.UserSubscription
	var planName string
	if err := row.Scan(&planName, &sub.ImageCount, &sub.VideoCount, &sub.StartDate); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNoSubscription
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	plan, ok := PlanByName(planName)
	if !ok {
		return nil, fmt.Errorf("unknown plan %q for user %s", planName, userID)
	}
	sub.Plan = plan
	return &sub, nil
}

func (s *PostgresStore) SetPlan(ctx context.Context, userID string, plan domain.Plan) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QSetSubscriptionPlan, userID, plan.Name); err != nil {
		return fmt.Errorf("set plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) IncrementUsage(ctx context.Context, userID string, kind domain.GenerationKind) error {
	query := sqlinline.QIncrementImageUsage
	if kind.IsVideo() {
		query = sqlinline.QIncrementVideoUsage
	}
	tag, err := s.sql.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoSubscription
	}
	return nil
}

var _ domain.SubscriptionStore = (*PostgresStore)(nil)
