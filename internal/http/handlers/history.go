package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// HistoryList returns the caller's history, newest first.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	items, err := a.History.List(r.Context(), claims.Sub)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// HistoryDelete removes one item owned by the caller.
func (a *App) HistoryDelete(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "item_id required")
		return
	}
	if err := a.History.Delete(r.Context(), claims.Sub, itemID); err != nil {
		if errors.Is(err, domain.ErrHistoryItemNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "history item not found")
			return
		}
		a.Logger.Error().Err(err).Msg("delete history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete history item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HistoryClear wipes the caller's whole history.
func (a *App) HistoryClear(w http.ResponseWriter, r *http.Request) {
	claims := a.currentClaims(r)
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.History.Clear(r.Context(), claims.Sub); err != nil {
		a.Logger.Error().Err(err).Msg("clear history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
