package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/lifecycle"
	"server/internal/middleware"
	"server/internal/providers/image"
	"server/internal/subscription"
)

func TestGenerateImageSuccess(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox", "image_count": 2}), claims)
	f.app.GenerateImage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Outputs) != 1 || !strings.HasPrefix(resp.Outputs[0], "data:image/jpeg;base64,") {
		t.Fatalf("outputs = %v", resp.Outputs)
	}
	if resp.HistoryID == "" {
		t.Fatal("expected a history id")
	}
	if resp.Subscription == nil || resp.Subscription.ImageCount != 1 {
		t.Fatalf("expected usage counter 1, got %+v", resp.Subscription)
	}

	items, err := f.hist.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != resp.HistoryID {
		t.Fatalf("history = %+v", items)
	}
}

func TestGenerateImageValidation(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "   "}), claims)
	f.app.GenerateImage(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	code, message := errorMessage(t, rec)
	if code != string(domain.ErrKindValidation) {
		t.Fatalf("code = %q", code)
	}
	if message != "Please enter a prompt to generate an image." {
		t.Fatalf("message = %q", message)
	}
	if f.images.calls != 0 {
		t.Fatalf("provider called %d times on a rejected request", f.images.calls)
	}
}

func TestGenerateImageQuota(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)
	for i := 0; i < 10; i++ {
		if err := f.subs.IncrementUsage(context.Background(), "u-1", domain.KindTextToImage); err != nil {
			t.Fatalf("IncrementUsage: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox"}), claims)
	f.app.GenerateImage(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	_, message := errorMessage(t, rec)
	if message != "You have reached your image generation limit for this plan. Please upgrade to continue." {
		t.Fatalf("message = %q", message)
	}
}

func TestGenerateImageNoSubscription(t *testing.T) {
	f := newFixture(t)
	claims := &middleware.TokenClaims{Sub: "u-unknown", Email: "x@example.com", Role: middleware.RoleUser}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox"}), claims)
	f.app.GenerateImage(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGenerateImageProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.images.err = errors.New("gemini status 500: internal")
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox"}), claims)
	f.app.GenerateImage(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestGenerateCooldown(t *testing.T) {
	f := newFixture(t)
	f.app.Cooldowns = lifecycle.NewCooldownTracker(30 * time.Second)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	first := httptest.NewRecorder()
	f.app.GenerateImage(first, authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox"}), claims))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	f.app.GenerateImage(second, authedRequest(http.MethodPost, "/v1/generations/image",
		jsonBody(t, map[string]any{"prompt": "a red fox"}), claims))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
	if f.images.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", f.images.calls)
	}
}

func TestGenerateVideoJSON(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	imageData := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/video",
		jsonBody(t, map[string]any{
			"type":  string(domain.KindImageToVideo),
			"image": map[string]string{"data": imageData, "mime_type": "image/png"},
		}), claims)
	f.app.GenerateVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Outputs) != 1 || !strings.HasPrefix(resp.Outputs[0], "/static/videos/") {
		t.Fatalf("outputs = %v", resp.Outputs)
	}
	if resp.FinalPrompt != "Animate this image." {
		t.Fatalf("final prompt = %q", resp.FinalPrompt)
	}
	if resp.Subscription == nil || resp.Subscription.VideoCount != 1 {
		t.Fatalf("subscription = %+v", resp.Subscription)
	}
}

func TestGenerateVideoJSONBadBase64(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/video",
		jsonBody(t, map[string]any{
			"type":  string(domain.KindImageToVideo),
			"image": map[string]string{"data": "not base64!!", "mime_type": "image/png"},
		}), claims)
	f.app.GenerateVideo(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateVideoMultipart(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("type", string(domain.KindImageToVideo)); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("image", "source.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := authedRequest(http.MethodPost, "/v1/generations/video", &body, claims)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.app.GenerateVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Outputs) != 1 {
		t.Fatalf("outputs = %v", resp.Outputs)
	}
}

func TestGenerateVideoMissingImage(t *testing.T) {
	f := newFixture(t)
	claims := f.seedUser(t, "u-1", "user@example.com", middleware.RoleUser, subscription.PlanStarter)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/v1/generations/video",
		jsonBody(t, map[string]any{"type": string(domain.KindImageToVideo)}), claims)
	f.app.GenerateVideo(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	_, message := errorMessage(t, rec)
	if message != "Please upload an image to generate a video." {
		t.Fatalf("message = %q", message)
	}
}

// Ensures the default stub generator satisfies the interface used here.
var _ image.Generator = (*stubImageGen)(nil)
