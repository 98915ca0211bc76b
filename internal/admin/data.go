package admin

import (
	"time"

	"server/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedData returns the demo dataset loaded when no database is configured.
// It mirrors the fixtures the admin console was designed around.
func SeedData() Data {
	return Data{
		Users: []domain.ManagedUser{
			{ID: "usr_001", Username: "Alice", Email: "alice@example.com", Plan: "Pro Plan", ImageCreditsUsed: 15, VideoCreditsUsed: 5, Status: domain.UserActive, JoinedDate: day(2024, 5, 1)},
			{ID: "usr_002", Username: "Bob", Email: "bob@example.com", Plan: "Starter Plan", ImageCreditsUsed: 8, VideoCreditsUsed: 2, Status: domain.UserActive, JoinedDate: day(2024, 5, 3)},
			{ID: "usr_003", Username: "Charlie", Email: "charlie@example.com", Plan: "Mega Pro Plan", ImageCreditsUsed: 75, VideoCreditsUsed: 18, Status: domain.UserActive, JoinedDate: day(2024, 4, 20)},
			{ID: "usr_004", Username: "Diana", Email: "diana@example.com", Plan: "Starter Plan", ImageCreditsUsed: 10, VideoCreditsUsed: 3, Status: domain.UserBanned, JoinedDate: day(2024, 3, 15)},
			{ID: "usr_005", Username: "Ethan", Email: "ethan@example.com", Plan: "Pro Plan", ImageCreditsUsed: 2, VideoCreditsUsed: 1, Status: domain.UserActive, JoinedDate: day(2024, 5, 10)},
		},
		Payments: []domain.Payment{
			{ID: "txn_101", UserEmail: "alice@example.com", Plan: "Pro Plan", Amount: "Rs.999", Method: "Easypaisa", Status: domain.PaymentCompleted, Date: day(2024, 5, 1)},
			{ID: "txn_102", UserEmail: "charlie@example.com", Plan: "Mega Pro Plan", Amount: "Rs.4,999", Method: "Payoneer", Status: domain.PaymentCompleted, Date: day(2024, 4, 20)},
			{ID: "txn_103", UserEmail: "frank@example.com", Plan: "Pro Plan", Amount: "Rs.999", Method: "Jazz Cash", Status: domain.PaymentFailed, Date: day(2024, 5, 8)},
			{ID: "txn_104", UserEmail: "grace@example.com", Plan: "Super Pro Plan", Amount: "Rs.2,999", Method: "Easypaisa", Status: domain.PaymentPending, Date: day(2024, 5, 9)},
			{ID: "txn_105", UserEmail: "ethan@example.com", Plan: "Pro Plan", Amount: "Rs.999", Method: "Jazz Cash", Status: domain.PaymentCompleted, Date: day(2024, 5, 10)},
		},
		Withdrawals: []domain.Withdrawal{
			{ID: "wd_001", AdminEmail: "rayyanzameer03@gmail.com", Amount: 5000, EasypaisaNumber: "03001234567", EasypaisaName: "Rayyan Zameer", Status: domain.WithdrawalCompleted, Timestamp: time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)},
			{ID: "wd_002", AdminEmail: "rayyanzameer03@gmail.com", Amount: 2500, EasypaisaNumber: "03001234567", EasypaisaName: "Rayyan Zameer", Status: domain.WithdrawalPending, Timestamp: time.Date(2024, 5, 10, 16, 30, 0, 0, time.UTC)},
		},
		ActivityLogs: []domain.ActivityLog{
			{ID: 1, AdminEmail: "rayyanzameer03@gmail.com", Action: "Banned user diana@example.com", Timestamp: time.Date(2024, 5, 9, 14, 30, 15, 0, time.UTC)},
			{ID: 2, AdminEmail: "rayyanzameer03@gmail.com", Action: "Updated user alice@example.com's plan to Pro", Timestamp: time.Date(2024, 5, 9, 11, 20, 5, 0, time.UTC)},
			{ID: 3, AdminEmail: "rayyanzameer03@gmail.com", Action: "Manually approved payment txn_102", Timestamp: time.Date(2024, 5, 8, 18, 5, 45, 0, time.UTC)},
			{ID: 4, AdminEmail: "rayyanzameer03@gmail.com", Action: "Logged in to Admin Panel", Timestamp: time.Date(2024, 5, 8, 18, 0, 0, 0, time.UTC)},
		},
	}
}
