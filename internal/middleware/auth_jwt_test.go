package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func testClaims(role string) TokenClaims {
	return TokenClaims{
		Sub:   "user-1",
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  role,
		Exp:   time.Now().Add(time.Hour).Unix(),
	}
}

func TestSignAndVerifyJWT(t *testing.T) {
	token, err := SignJWT(testSecret, testClaims(RoleUser))
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "user-1" || claims.Email != "alice@example.com" || claims.Role != RoleUser {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := VerifyJWT("wrong-secret", token); err == nil {
		t.Error("token verified with the wrong secret")
	}
	if _, err := VerifyJWT(testSecret, token+"x"); err == nil {
		t.Error("tampered token verified")
	}
}

func TestVerifyJWTExpired(t *testing.T) {
	claims := testClaims(RoleUser)
	claims.Exp = time.Now().Add(-time.Minute).Unix()
	token, _ := SignJWT(testSecret, claims)

	if _, err := VerifyJWT(testSecret, token); err == nil {
		t.Error("expired token verified")
	}
}

func TestAuthJWT(t *testing.T) {
	var gotUserID string
	var gotClaims *TokenClaims
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotClaims = ClaimsFromContext(r.Context())
	}))

	token, _ := SignJWT(testSecret, testClaims(RoleUser))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotClaims = "", nil
			r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUserID != "user-1" {
					t.Errorf("user id = %q", gotUserID)
				}
				if gotClaims == nil || gotClaims.Email != "alice@example.com" {
					t.Errorf("claims = %+v", gotClaims)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", RoleAdmin, http.StatusOK},
		{"user forbidden", RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := testClaims(tt.role)
			r := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
			r = r.WithContext(ContextWithClaims(r.Context(), &claims))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	// No claims at all.
	r := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("status without claims = %d, want 403", w.Code)
	}
}
