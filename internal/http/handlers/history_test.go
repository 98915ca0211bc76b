package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/subscription"
)

func seedHistory(t *testing.T, f *fixture, userID string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := f.hist.Append(context.Background(), userID, domain.HistoryItem{
			ID:     id,
			Type:   domain.KindTextToImage,
			Prompt: "p-" + id,
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
}

func TestHistoryList(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)
	seedHistory(t, f, "u-1", "h-1", "h-2")

	rec := httptest.NewRecorder()
	f.app.HistoryList(rec, authedRequest(http.MethodGet, "/v1/history", nil, claims))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []domain.HistoryItem `json:"items"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Items) != 2 || resp.Items[0].ID != "h-2" {
		t.Fatalf("items = %+v", resp.Items)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	f.app.HistoryList(rec, authedRequest(http.MethodGet, "/v1/history", nil, claims))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []domain.HistoryItem `json:"items"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Items == nil {
		t.Fatal("items should decode to an empty slice, not null")
	}
}

// withURLParam injects a chi route parameter for direct handler calls.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHistoryDelete(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)
	seedHistory(t, f, "u-1", "h-1", "h-2")

	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest(http.MethodDelete, "/v1/history/h-1", nil, claims), "item_id", "h-1")
	f.app.HistoryDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	items, _ := f.hist.List(context.Background(), "u-1")
	if len(items) != 1 || items[0].ID != "h-2" {
		t.Fatalf("items after delete = %+v", items)
	}
}

func TestHistoryDeleteUnknownItem(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest(http.MethodDelete, "/v1/history/nope", nil, claims), "item_id", "nope")
	f.app.HistoryDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHistoryClear(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)
	seedHistory(t, f, "u-1", "h-1", "h-2", "h-3")

	rec := httptest.NewRecorder()
	f.app.HistoryClear(rec, authedRequest(http.MethodDelete, "/v1/history", nil, claims))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	items, _ := f.hist.List(context.Background(), "u-1")
	if len(items) != 0 {
		t.Fatalf("items after clear = %+v", items)
	}
}
