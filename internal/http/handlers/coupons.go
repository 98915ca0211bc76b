package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/coupon"
	"server/internal/domain"
	"server/internal/subscription"
)

type redeemRequest struct {
	Code string `json:"code"`
}

type redeemResponse struct {
	Coupon       *domain.Coupon           `json:"coupon"`
	Subscription *domain.UserSubscription `json:"subscription"`
}

// CouponRedeem spends a coupon for the signed-in user and grants the Pro
// Plan free for the first month. Rejections keep the exact message the
// redemption produced.
func (a *App) CouponRedeem(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	redeemed, err := a.Coupons.Redeem(r.Context(), req.Code, claims.Email)
	if err != nil {
		var rerr *coupon.RedeemError
		if errors.As(err, &rerr) {
			a.error(w, http.StatusUnprocessableEntity, "coupon_rejected", rerr.Message)
			return
		}
		a.Logger.Error().Err(err).Msg("coupon redeem failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to redeem coupon")
		return
	}

	plan, _ := subscription.PlanByName(subscription.PlanPro)
	if err := a.Subscriptions.SetPlan(r.Context(), claims.Sub, plan); err != nil {
		a.Logger.Error().Err(err).Msg("set plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update subscription")
		return
	}
	sub, err := a.Subscriptions.Get(r.Context(), claims.Sub)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load subscription")
		return
	}
	a.json(w, http.StatusOK, redeemResponse{Coupon: redeemed, Subscription: sub})
}
