package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/subscription"
)

const sessionTTL = 24 * time.Hour

type googleVerifyRequest struct {
	IDToken string `json:"id_token"`
}

type userProfileDTO struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role"`
}

type googleVerifyResponse struct {
	Token        string                   `json:"token"`
	User         userProfileDTO           `json:"user"`
	Subscription *domain.UserSubscription `json:"subscription"`
}

// AuthGoogleVerify exchanges a Google ID token for a session token. First
// sign-in provisions the account on the Starter Plan. Addresses on the admin
// allow-list get the admin role baked into their session.
func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.IDToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	identity, err := a.Google.VerifyIdentity(ctx, req.IDToken)
	if err != nil {
		a.Logger.Error().Err(err).Msg("google verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid google token")
		return
	}

	role := middleware.RoleUser
	if a.Config.IsAdminEmail(identity.Email) {
		role = middleware.RoleAdmin
	}

	user, err := a.Users.UpsertGoogle(r.Context(), identity, role)
	if err != nil {
		a.Logger.Error().Err(err).Msg("upsert user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist user")
		return
	}
	if user.Status == domain.UserBanned {
		a.error(w, http.StatusForbidden, "forbidden", "account is banned")
		return
	}

	sub, err := a.Subscriptions.Get(r.Context(), user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSubscription) {
			a.Logger.Error().Err(err).Msg("load subscription failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load subscription")
			return
		}
		if err := a.Subscriptions.SetPlan(r.Context(), user.ID, subscription.StarterPlan()); err != nil {
			a.Logger.Error().Err(err).Msg("assign starter plan failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to provision subscription")
			return
		}
		sub, err = a.Subscriptions.Get(r.Context(), user.ID)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load subscription")
			return
		}
	}

	token, err := middleware.SignJWT(a.Config.JWTSecret, middleware.TokenClaims{
		Sub:      user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     role,
		Exp:      time.Now().Add(sessionTTL).Unix(),
		Issuer:   "velora",
		Audience: "velora-clients",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	if role == middleware.RoleAdmin {
		a.Admin.RecordLogin(r.Context(), user.Email)
	}

	a.json(w, http.StatusOK, googleVerifyResponse{
		Token: token,
		User: userProfileDTO{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			Picture: user.Picture,
			Role:    role,
		},
		Subscription: sub,
	})
}

// Me returns the session profile and current subscription.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	sub, err := a.Subscriptions.Get(r.Context(), claims.Sub)
	if err != nil && !errors.Is(err, domain.ErrNoSubscription) {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load subscription")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user": userProfileDTO{
			ID:    claims.Sub,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		},
		"subscription": sub,
	})
}
