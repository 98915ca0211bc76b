package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/admin"
	"server/internal/coupon"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/google"
	"server/internal/lifecycle"
	"server/internal/middleware"
	"server/internal/providers/prompt"
	"server/internal/storage"
	"server/internal/users"
)

// GoogleVerifier validates Google ID tokens. Satisfied by
// google.Verifier; stubbed in tests.
type GoogleVerifier interface {
	VerifyIdentity(ctx context.Context, token string) (*google.Identity, error)
}

// App bundles the handler dependencies. All fields are required unless noted.
type App struct {
	Config        *infra.Config
	Logger        *infra.Logger
	Users         users.Store
	Subscriptions domain.SubscriptionStore
	History       domain.HistoryStore
	Lifecycle     *lifecycle.Manager
	Cooldowns     *lifecycle.CooldownTracker
	Coupons       *coupon.Service
	Admin         *admin.Service
	Files         *storage.FileStore
	Google        GoogleVerifier
	Prompts       *prompt.Suggester
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// currentClaims returns the verified session claims, or nil outside an
// authenticated route.
func (a *App) currentClaims(r *http.Request) *middleware.TokenClaims {
	return middleware.ClaimsFromContext(r.Context())
}
