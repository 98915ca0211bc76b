package domain

import "time"

type UserStatus string

const (
	UserActive UserStatus = "Active"
	UserBanned UserStatus = "Banned"
)

// ManagedUser is the admin console's view of an account.
type ManagedUser struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Plan             string     `json:"plan"`
	ImageCreditsUsed int        `json:"image_credits_used"`
	VideoCreditsUsed int        `json:"video_credits_used"`
	Status           UserStatus `json:"status"`
	JoinedDate       time.Time  `json:"joined_date"`
}

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentPending   PaymentStatus = "Pending"
	PaymentFailed    PaymentStatus = "Failed"
)

// PaymentMethods lists the accepted mock payment methods.
var PaymentMethods = []string{"Easypaisa", "Jazz Cash", "Payoneer"}

// Payment is one (mock) plan purchase record.
type Payment struct {
	ID        string        `json:"id"`
	UserEmail string        `json:"user_email"`
	Plan      string        `json:"plan"`
	Amount    string        `json:"amount"`
	Method    string        `json:"method"`
	Status    PaymentStatus `json:"status"`
	Country   string        `json:"country,omitempty"`
	Date      time.Time     `json:"date"`
}

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "Pending"
	WithdrawalCompleted WithdrawalStatus = "Completed"
	WithdrawalFailed    WithdrawalStatus = "Failed"
)

// Withdrawal is an admin payout request against collected earnings.
type Withdrawal struct {
	ID              string           `json:"id"`
	AdminEmail      string           `json:"admin_email"`
	Amount          int              `json:"amount"`
	EasypaisaNumber string           `json:"easypaisa_number"`
	EasypaisaName   string           `json:"easypaisa_name"`
	Status          WithdrawalStatus `json:"status"`
	Timestamp       time.Time        `json:"timestamp"`
}

// ActivityLog records one admin action for the audit trail.
type ActivityLog struct {
	ID         int       `json:"id"`
	AdminEmail string    `json:"admin_email"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// DashboardStats is the aggregated admin dashboard payload.
type DashboardStats struct {
	TotalUsers       int            `json:"total_users"`
	EarningsAllTime  int            `json:"earnings_all_time"`
	EarningsMonth    int            `json:"earnings_month"`
	EarningsWeek     int            `json:"earnings_week"`
	EarningsToday    int            `json:"earnings_today"`
	ActivePlans      map[string]int `json:"active_plans"`
	ImagesGenerated  int            `json:"images_generated"`
	VideosGenerated  int            `json:"videos_generated"`
	AvailableCoupons int            `json:"available_coupons"`
}
