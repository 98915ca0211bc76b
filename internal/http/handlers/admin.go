package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/admin"
	"server/internal/domain"
	"server/internal/subscription"
)

// AdminDashboard returns the aggregated stat block for the admin panel.
func (a *App) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Admin.Dashboard(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("dashboard stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to compute dashboard")
		return
	}
	a.json(w, http.StatusOK, stats)
}

func (a *App) AdminUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.Admin.Users(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"users": items})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// AdminSetUserStatus bans or unbans a user by id.
func (a *App) AdminSetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	status := domain.UserStatus(req.Status)
	if status != domain.UserActive && status != domain.UserBanned {
		a.error(w, http.StatusUnprocessableEntity, "validation", "status must be Active or Banned")
		return
	}
	err := a.Admin.SetUserStatus(r.Context(), chi.URLParam(r, "user_id"), status, a.currentClaims(r).Email)
	if errors.Is(err, admin.ErrUserNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setPlanRequest struct {
	PlanName string `json:"plan_name"`
}

func (a *App) AdminUpdateUserPlan(w http.ResponseWriter, r *http.Request) {
	var req setPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if _, ok := subscription.PlanByName(req.PlanName); !ok {
		a.error(w, http.StatusUnprocessableEntity, "validation", "unknown plan: "+req.PlanName)
		return
	}
	err := a.Admin.UpdateUserPlan(r.Context(), chi.URLParam(r, "user_id"), req.PlanName, a.currentClaims(r).Email)
	if errors.Is(err, admin.ErrUserNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	err := a.Admin.DeleteUser(r.Context(), chi.URLParam(r, "user_id"), a.currentClaims(r).Email)
	if errors.Is(err, admin.ErrUserNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdminPayments(w http.ResponseWriter, r *http.Request) {
	items, err := a.Admin.Payments(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list payments")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"payments": items})
}

func (a *App) AdminApprovePayment(w http.ResponseWriter, r *http.Request) {
	err := a.Admin.ApprovePayment(r.Context(), chi.URLParam(r, "payment_id"), a.currentClaims(r).Email)
	if errors.Is(err, admin.ErrPaymentNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "payment not found")
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to approve payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdminWithdrawals(w http.ResponseWriter, r *http.Request) {
	items, err := a.Admin.Withdrawals(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list withdrawals")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"withdrawals":       items,
		"available_balance": a.Admin.AvailableBalance(r.Context()),
	})
}

type withdrawRequest struct {
	Amount          int    `json:"amount"`
	EasypaisaNumber string `json:"easypaisa_number"`
	EasypaisaName   string `json:"easypaisa_name"`
}

// AdminRequestWithdrawal files a pending payout. Amounts above the available
// balance are rejected with the balance error message.
func (a *App) AdminRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.EasypaisaNumber) == "" || strings.TrimSpace(req.EasypaisaName) == "" {
		a.error(w, http.StatusUnprocessableEntity, "validation", "easypaisa account details required")
		return
	}
	withdrawal, err := a.Admin.RequestWithdrawal(r.Context(), a.currentClaims(r).Email, req.Amount, req.EasypaisaNumber, req.EasypaisaName)
	if errors.Is(err, admin.ErrInsufficientBalance) {
		a.error(w, http.StatusUnprocessableEntity, "validation", err.Error())
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to request withdrawal")
		return
	}
	a.json(w, http.StatusCreated, withdrawal)
}

func (a *App) AdminCoupons(w http.ResponseWriter, r *http.Request) {
	items, err := a.Coupons.List(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list coupons")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"coupons": items})
}

type generateCouponsRequest struct {
	Count int `json:"count"`
}

// AdminGenerateCoupons mints fresh single-use codes.
func (a *App) AdminGenerateCoupons(w http.ResponseWriter, r *http.Request) {
	var req generateCouponsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	coupons, err := a.Coupons.Generate(r.Context(), req.Count)
	if err != nil {
		a.Logger.Error().Err(err).Msg("coupon generation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to generate coupons")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"coupons": coupons})
}

func (a *App) AdminActivity(w http.ResponseWriter, r *http.Request) {
	items, err := a.Admin.Activity(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list activity")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"activity": items})
}
