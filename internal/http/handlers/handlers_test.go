package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/admin"
	"server/internal/coupon"
	"server/internal/history"
	"server/internal/infra"
	"server/internal/infra/google"
	"server/internal/lifecycle"
	"server/internal/middleware"
	"server/internal/providers/image"
	"server/internal/providers/prompt"
	"server/internal/providers/video"
	"server/internal/storage"
	"server/internal/subscription"
	"server/internal/users"
)

type stubVerifier struct {
	identity *google.Identity
	err      error
}

func (s *stubVerifier) VerifyIdentity(ctx context.Context, token string) (*google.Identity, error) {
	return s.identity, s.err
}

type stubImageGen struct {
	assets []image.Asset
	err    error
	calls  int
}

func (s *stubImageGen) Generate(ctx context.Context, req image.Request) ([]image.Asset, error) {
	s.calls++
	return s.assets, s.err
}

type stubVideoClient struct {
	job video.Job
	err error
}

func (s *stubVideoClient) Submit(ctx context.Context, req video.Request) (video.Job, error) {
	return s.job, s.err
}

func (s *stubVideoClient) Status(ctx context.Context, job video.Job) (video.Job, error) {
	return s.job, s.err
}

func (s *stubVideoClient) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	return []byte("video-bytes"), "video/mp4", nil
}

type fixture struct {
	app    *App
	images *stubImageGen
	subs   *subscription.MemoryStore
	hist   *history.MemoryStore
	coups  *coupon.MemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := infra.Logger(zerolog.New(io.Discard))

	subs := subscription.NewMemoryStore()
	hist := history.NewMemoryStore()
	coups := coupon.NewSeededRepository()
	images := &stubImageGen{assets: []image.Asset{{Data: []byte("img"), MimeType: "image/jpeg"}}}

	files, err := storage.NewFileStore(t.TempDir(), "/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	manager := lifecycle.NewManager(lifecycle.Options{
		Images:        images,
		Videos:        &stubVideoClient{job: video.Job{ID: "op/1", Done: true, ResultURI: "http://dl/video.mp4"}},
		Subscriptions: subs,
		History:       hist,
		Blobs:         files,
		PollInterval:  time.Millisecond,
		PollMaxWait:   time.Second,
		Logger:        &logger,
	})

	couponSvc := coupon.NewService(coups, &logger)
	adminSvc := admin.NewService(admin.SeedData(), coups, &logger)

	app := &App{
		Config: &infra.Config{
			JWTSecret:   "test-secret",
			AdminEmails: []string{"admin@example.com"},
		},
		Logger:        &logger,
		Users:         users.NewMemoryStore(),
		Subscriptions: subs,
		History:       hist,
		Lifecycle:     manager,
		Cooldowns:     lifecycle.NewCooldownTracker(0),
		Coupons:       couponSvc,
		Admin:         adminSvc,
		Files:         files,
		Google:        &stubVerifier{identity: &google.Identity{Subject: "g-1", Email: "user@example.com", Name: "Test User"}},
		Prompts:       prompt.NewSuggester(rand.New(rand.NewSource(1))),
	}
	return &fixture{app: app, images: images, subs: subs, hist: hist, coups: coups}
}

// seedUser provisions a subscription and returns claims for request contexts.
func (f *fixture) seedUser(t *testing.T, userID, email, role, planName string) *middleware.TokenClaims {
	t.Helper()
	plan, ok := subscription.PlanByName(planName)
	if !ok {
		t.Fatalf("unknown plan %q", planName)
	}
	if err := f.subs.SetPlan(context.Background(), userID, plan); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}
	return &middleware.TokenClaims{
		Sub:   userID,
		Email: email,
		Role:  role,
		Exp:   time.Now().Add(time.Hour).Unix(),
	}
}

func authedRequest(method, target string, body io.Reader, claims *middleware.TokenClaims) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if claims != nil {
		r = r.WithContext(middleware.ContextWithClaims(r.Context(), claims))
	}
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeJSON(t, rec, &body)
	return body.Error.Code, body.Error.Message
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return strings.NewReader(string(data))
}
