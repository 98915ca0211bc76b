package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the HTTP surface. Countries resolves payment geo tags and
// may be nil when no GeoIP database is configured.
func NewRouter(app *handlers.App, countries middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	// Rate limiting runs after AuthJWT in the signed-in groups so buckets
	// key on the session subject rather than a shared NAT address.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))

		r.Get("/v1/healthz", app.Health)
		r.Post("/v1/auth/google", app.AuthGoogleVerify)
		r.Get("/v1/plans", app.PlansList)

		// Generated videos are served from local storage.
		r.Get("/static/*", app.StaticAsset)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(app.Config.JWTSecret),
			middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		)

		r.Get("/v1/me", app.Me)
		r.Get("/v1/prompts/suggest", app.PromptSuggest)

		r.With(middleware.Geo(countries)).Post("/v1/subscription", app.Subscribe)
		r.Post("/v1/coupons/redeem", app.CouponRedeem)

		r.Post("/v1/generations/image", app.GenerateImage)
		r.Post("/v1/generations/video", app.GenerateVideo)

		r.Get("/v1/history", app.HistoryList)
		r.Delete("/v1/history", app.HistoryClear)
		r.Delete("/v1/history/{item_id}", app.HistoryDelete)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(app.Config.JWTSecret),
			middleware.RequireAdmin,
			middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		)

		r.Get("/v1/admin/dashboard", app.AdminDashboard)
		r.Get("/v1/admin/users", app.AdminUsers)
		r.Put("/v1/admin/users/{user_id}/status", app.AdminSetUserStatus)
		r.Put("/v1/admin/users/{user_id}/plan", app.AdminUpdateUserPlan)
		r.Delete("/v1/admin/users/{user_id}", app.AdminDeleteUser)
		r.Get("/v1/admin/payments", app.AdminPayments)
		r.Post("/v1/admin/payments/{payment_id}/approve", app.AdminApprovePayment)
		r.Get("/v1/admin/withdrawals", app.AdminWithdrawals)
		r.Post("/v1/admin/withdrawals", app.AdminRequestWithdrawal)
		r.Get("/v1/admin/coupons", app.AdminCoupons)
		r.Post("/v1/admin/coupons", app.AdminGenerateCoupons)
		r.Get("/v1/admin/activity", app.AdminActivity)
	})

	return r
}
