package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		lookup CountryLookup
		want   string
	}{
		{
			name:   "cloudflare header",
			header: map[string]string{"CF-IPCountry": "pk"},
			want:   "PK",
		},
		{
			name:   "explicit country header wins over lookup",
			header: map[string]string{"X-Country-Code": "AE"},
			lookup: func(ip string) (string, error) { return "PK", nil },
			want:   "AE",
		},
		{
			name:   "geoip fallback",
			lookup: func(ip string) (string, error) { return "pk", nil },
			want:   "PK",
		},
		{
			name:   "lookup failure yields empty",
			lookup: func(ip string) (string, error) { return "", errors.New("no db") },
			want:   "",
		},
		{
			name: "nothing available",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "198.51.100.10:4321"
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ResolveCountry(r, tt.lookup); got != tt.want {
				t.Errorf("ResolveCountry = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeoMiddleware(t *testing.T) {
	var got string
	handler := Geo(func(ip string) (string, error) { return "PK", nil })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CountryFromContext(r.Context())
		}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.10:4321"
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if got != "PK" {
		t.Errorf("country in context = %q, want PK", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.10:4321"
	if got := ClientIP(r); got != "198.51.100.10" {
		t.Errorf("ClientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.2")
	if got := ClientIP(r); got != "203.0.113.1" {
		t.Errorf("ClientIP with XFF = %q", got)
	}
}
