package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
)

var (
	// ErrUserNotFound signals an operation on an unknown managed user.
	ErrUserNotFound = errors.New("managed user not found")

	// ErrPaymentNotFound signals an operation on an unknown payment.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInsufficientBalance rejects a withdrawal above the available
	// balance.
	ErrInsufficientBalance = errors.New("Withdrawal amount cannot exceed the available balance.")
)

// Data is the mutable admin dataset the service operates on.
type Data struct {
	Users        []domain.ManagedUser
	Payments     []domain.Payment
	Withdrawals  []domain.Withdrawal
	ActivityLogs []domain.ActivityLog
}

// Service backs the admin console: dashboard aggregation, user management,
// payment records, withdrawals, and the activity audit trail. Every mutating
// call appends an activity log entry naming the acting admin.
type Service struct {
	mu        sync.Mutex
	data      Data
	nextLogID int
	coupons   domain.CouponRepository
	logger    *infra.Logger
	now       func() time.Time
	newID     func() string
}

func NewService(data Data, coupons domain.CouponRepository, logger *infra.Logger) *Service {
	nextLogID := 1
	for _, log := range data.ActivityLogs {
		if log.ID >= nextLogID {
			nextLogID = log.ID + 1
		}
	}
	return &Service{
		data:      data,
		nextLogID: nextLogID,
		coupons:   coupons,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Dashboard aggregates the stats header of the admin console. Earnings only
// count completed payments; generation totals only count active users.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stats := &domain.DashboardStats{
		TotalUsers:  len(s.data.Users),
		ActivePlans: make(map[string]int),
	}

	for _, p := range s.data.Payments {
		if p.Status != domain.PaymentCompleted {
			continue
		}
		amount := ParseAmount(p.Amount)
		stats.EarningsAllTime += amount
		if sameDay(p.Date, now) {
			stats.EarningsToday += amount
		}
		if sameWeek(p.Date, now) {
			stats.EarningsWeek += amount
		}
		if sameMonth(p.Date, now) {
			stats.EarningsMonth += amount
		}
	}

	for _, u := range s.data.Users {
		if u.Status != domain.UserActive {
			continue
		}
		stats.ActivePlans[u.Plan]++
		stats.ImagesGenerated += u.ImageCreditsUsed
		stats.VideosGenerated += u.VideoCreditsUsed
	}

	if s.coupons != nil {
		coupons, err := s.coupons.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("count coupons: %w", err)
		}
		for _, c := range coupons {
			if c.Status == domain.CouponAvailable {
				stats.AvailableCoupons++
			}
		}
	}
	return stats, nil
}

func (s *Service) Users(ctx context.Context) ([]domain.ManagedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ManagedUser, len(s.data.Users))
	copy(out, s.data.Users)
	return out, nil
}

// SetUserStatus bans or unbans a managed user.
func (s *Service) SetUserStatus(ctx context.Context, userID string, status domain.UserStatus, adminEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Users {
		if s.data.Users[i].ID != userID {
			continue
		}
		s.data.Users[i].Status = status
		verb := "Unbanned"
		if status == domain.UserBanned {
			verb = "Banned"
		}
		s.logActivity(adminEmail, fmt.Sprintf("%s user %s", verb, s.data.Users[i].Email))
		return nil
	}
	return ErrUserNotFound
}

func (s *Service) UpdateUserPlan(ctx context.Context, userID, planName, adminEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Users {
		if s.data.Users[i].ID != userID {
			continue
		}
		s.data.Users[i].Plan = planName
		s.logActivity(adminEmail, fmt.Sprintf("Updated user %s's plan to %s", s.data.Users[i].Email, planName))
		return nil
	}
	return ErrUserNotFound
}

func (s *Service) DeleteUser(ctx context.Context, userID, adminEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Users {
		if s.data.Users[i].ID != userID {
			continue
		}
		email := s.data.Users[i].Email
		s.data.Users = append(s.data.Users[:i:i], s.data.Users[i+1:]...)
		s.logActivity(adminEmail, fmt.Sprintf("Deleted user %s", email))
		return nil
	}
	return ErrUserNotFound
}

func (s *Service) Payments(ctx context.Context) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Payment, len(s.data.Payments))
	copy(out, s.data.Payments)
	return out, nil
}

// RecordPayment appends a purchase record, normally from the subscribe flow.
func (s *Service) RecordPayment(ctx context.Context, payment domain.Payment) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == "" {
		payment.ID = "txn_" + s.newID()[:8]
	}
	if payment.Date.IsZero() {
		payment.Date = s.now().UTC()
	}
	s.data.Payments = append([]domain.Payment{payment}, s.data.Payments...)
	return payment
}

// ApprovePayment marks a pending payment completed.
func (s *Service) ApprovePayment(ctx context.Context, paymentID, adminEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Payments {
		if s.data.Payments[i].ID != paymentID {
			continue
		}
		s.data.Payments[i].Status = domain.PaymentCompleted
		s.logActivity(adminEmail, fmt.Sprintf("Manually approved payment %s", paymentID))
		return nil
	}
	return ErrPaymentNotFound
}

func (s *Service) Withdrawals(ctx context.Context) ([]domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Withdrawal, len(s.data.Withdrawals))
	copy(out, s.data.Withdrawals)
	return out, nil
}

// AvailableBalance is all-time completed earnings minus completed
// withdrawals. Pending withdrawals do not reduce it until they clear.
func (s *Service) AvailableBalance(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableBalanceLocked()
}

func (s *Service) availableBalanceLocked() int {
	earnings := 0
	for _, p := range s.data.Payments {
		if p.Status == domain.PaymentCompleted {
			earnings += ParseAmount(p.Amount)
		}
	}
	withdrawn := 0
	for _, w := range s.data.Withdrawals {
		if w.Status == domain.WithdrawalCompleted {
			withdrawn += w.Amount
		}
	}
	return earnings - withdrawn
}

// RequestWithdrawal files a pending payout against the available balance.
func (s *Service) RequestWithdrawal(ctx context.Context, adminEmail string, amount int, easypaisaNumber, easypaisaName string) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount <= 0 {
		return nil, ErrInsufficientBalance
	}
	if amount > s.availableBalanceLocked() {
		return nil, ErrInsufficientBalance
	}
	withdrawal := domain.Withdrawal{
		ID:              "wd_" + s.newID()[:8],
		AdminEmail:      adminEmail,
		Amount:          amount,
		EasypaisaNumber: easypaisaNumber,
		EasypaisaName:   easypaisaName,
		Status:          domain.WithdrawalPending,
		Timestamp:       s.now().UTC(),
	}
	s.data.Withdrawals = append([]domain.Withdrawal{withdrawal}, s.data.Withdrawals...)
	s.logActivity(adminEmail, fmt.Sprintf("Requested withdrawal of Rs.%d", amount))
	return &withdrawal, nil
}

func (s *Service) Activity(ctx context.Context) ([]domain.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActivityLog, len(s.data.ActivityLogs))
	copy(out, s.data.ActivityLogs)
	return out, nil
}

// RecordLogin notes an admin panel sign-in in the audit trail.
func (s *Service) RecordLogin(ctx context.Context, adminEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logActivity(adminEmail, "Logged in to Admin Panel")
}

func (s *Service) logActivity(adminEmail, action string) {
	entry := domain.ActivityLog{
		ID:         s.nextLogID,
		AdminEmail: adminEmail,
		Action:     action,
		Timestamp:  s.now().UTC(),
	}
	s.nextLogID++
	s.data.ActivityLogs = append([]domain.ActivityLog{entry}, s.data.ActivityLogs...)
	if s.logger != nil {
		s.logger.Info().Str("admin", adminEmail).Str("action", action).Msg("admin activity")
	}
}

// ParseAmount reads a display amount like "Rs.4,999" as an integer.
func ParseAmount(amount string) int {
	var digits strings.Builder
	for _, r := range amount {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// sameWeek uses a Sunday-started week containing now.
func sameWeek(t, now time.Time) bool {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	end := start.AddDate(0, 0, 7)
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

func sameMonth(t, now time.Time) bool {
	t, now = t.UTC(), now.UTC()
	return t.Year() == now.Year() && t.Month() == now.Month()
}
