package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantOrigin  string
		wantMethods bool
	}{
		{
			name:       "configured origin",
			allowed:    []string{" https://rink.example.com ", ""},
			method:     http.MethodPost,
			origin:     "https://rink.example.com",
			wantStatus: http.StatusOK,
			wantOrigin: "https://rink.example.com",
		},
		{
			name:       "unconfigured origin still reaches handler",
			allowed:    []string{"https://allowed.example.com"},
			method:     http.MethodGet,
			origin:     "https://other.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://rink.example.com",
			preflight:   true,
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantMethods: true,
		},
		{
			name:       "refused preflight",
			allowed:    []string{"https://allowed.example.com"},
			method:     http.MethodOptions,
			origin:     "https://other.example.com",
			preflight:  true,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "plain options is not a preflight",
			allowed:    []string{"*"},
			method:     http.MethodOptions,
			origin:     "https://rink.example.com",
			wantStatus: http.StatusOK,
			wantOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tt.method, "/v1/stats/query", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin=%q want=%q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods") != ""; got != tt.wantMethods {
				t.Fatalf("Access-Control-Allow-Methods present=%v want=%v", got, tt.wantMethods)
			}
		})
	}
}
