package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"server/internal/coupon"
	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/subscription"
)

// PlansList returns the static plan catalog.
func (a *App) PlansList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"plans": subscription.Catalog})
}

type paymentDetails struct {
	Method        string `json:"method"`
	AccountNumber string `json:"account_number,omitempty"`
}

type subscribeRequest struct {
	PlanName   string          `json:"plan_name"`
	CouponCode string          `json:"coupon_code,omitempty"`
	Payment    *paymentDetails `json:"payment,omitempty"`
}

type subscribeResponse struct {
	Subscription *domain.UserSubscription `json:"subscription"`
	Payment      *domain.Payment          `json:"payment,omitempty"`
	Coupon       *domain.Coupon           `json:"coupon,omitempty"`
}

// Subscribe switches the caller to a new plan. A valid coupon grants the
// Pro Plan with no payment; every other paid plan records a mock payment
// before the plan change takes effect. The Starter Plan needs neither.
func (a *App) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if code := strings.TrimSpace(req.CouponCode); code != "" {
		a.subscribeWithCoupon(w, r, claims, code)
		return
	}

	plan, ok := subscription.PlanByName(req.PlanName)
	if !ok {
		a.error(w, http.StatusUnprocessableEntity, "validation", "unknown plan: "+req.PlanName)
		return
	}

	resp := subscribeResponse{}
	if plan.Name != subscription.PlanStarter {
		if req.Payment == nil {
			a.error(w, http.StatusUnprocessableEntity, "validation", "payment details required")
			return
		}
		if !validPaymentMethod(req.Payment.Method) {
			a.error(w, http.StatusUnprocessableEntity, "validation", "unsupported payment method: "+req.Payment.Method)
			return
		}
		if needsAccountNumber(req.Payment.Method) && strings.TrimSpace(req.Payment.AccountNumber) == "" {
			a.error(w, http.StatusUnprocessableEntity, "validation", "Please enter your account number.")
			return
		}
		recorded := a.Admin.RecordPayment(r.Context(), domain.Payment{
			UserEmail: claims.Email,
			Plan:      plan.Name,
			Amount:    plan.Price,
			Method:    req.Payment.Method,
			Status:    domain.PaymentCompleted,
			Country:   middleware.CountryFromContext(r.Context()),
		})
		resp.Payment = &recorded
	}

	if err := a.Subscriptions.SetPlan(r.Context(), claims.Sub, plan); err != nil {
		a.Logger.Error().Err(err).Str("plan", plan.Name).Msg("set plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update subscription")
		return
	}

	sub, err := a.Subscriptions.Get(r.Context(), claims.Sub)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load subscription")
		return
	}
	resp.Subscription = sub
	a.json(w, http.StatusOK, resp)
}

// subscribeWithCoupon redeems the code and grants a free first month of the
// Pro Plan. The plan change only happens when the redemption wins.
func (a *App) subscribeWithCoupon(w http.ResponseWriter, r *http.Request, claims *middleware.TokenClaims, code string) {
	redeemed, err := a.Coupons.Redeem(r.Context(), code, claims.Email)
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
	a.json(w, http.StatusOK, subscribeResponse{Subscription: sub, Coupon: redeemed})
}

func validPaymentMethod(method string) bool {
	for _, m := range domain.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Easypaisa and Jazz Cash payments need a wallet account number.
func needsAccountNumber(method string) bool {
	return method == "Easypaisa" || method == "Jazz Cash"
}
