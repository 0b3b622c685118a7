package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-analytics/internal/domain/window"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var env googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if env.APIVersion != googleAPIVersion {
		t.Fatalf("expected apiVersion=%s, got %q", googleAPIVersion, env.APIVersion)
	}
	return env
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(withRequestID(context.Background(), "req-7"), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.ID != "req-7" || env.Data == nil || env.Error != nil {
		t.Fatalf("unexpected success envelope: %+v", env)
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "caller mistake keeps message",
			err:         fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput),
			wantCode:    http.StatusBadRequest,
			wantStatus:  "INVALID_ARGUMENT",
			wantMessage: "invalid input: bad payload",
		},
		{
			name:        "internal cause is hidden",
			err:         errors.New("pq: relation shots does not exist"),
			wantCode:    http.StatusInternalServerError,
			wantStatus:  "INTERNAL",
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tt.err)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Status != tt.wantStatus || env.Error.Message != tt.wantMessage {
				t.Fatalf("unexpected error body: %+v", env.Error)
			}
			if len(env.Error.Errors) != 1 || env.Error.Errors[0].Domain != errorDomain {
				t.Fatalf("unexpected error items: %+v", env.Error.Errors)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{name: "invalid range", err: fmt.Errorf("%w: season 2024 is after 2023", window.ErrInvalidRange), wantStatus: http.StatusBadRequest, wantReason: "invalidRange", wantCode: "INVALID_ARGUMENT"},
		{name: "invalid input", err: fmt.Errorf("%w: unknown statistic", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantReason: "invalidInput", wantCode: "INVALID_ARGUMENT"},
		{name: "unresolved entity", err: fmt.Errorf("%w: no player matches", usecase.ErrUnresolvedEntity), wantStatus: http.StatusNotFound, wantReason: "unresolvedEntity", wantCode: "NOT_FOUND"},
		{name: "timeout", err: fmt.Errorf("%w: fetch events", usecase.ErrTimeout), wantStatus: http.StatusGatewayTimeout, wantReason: "timeout", wantCode: "DEADLINE_EXCEEDED"},
		{name: "breaker open", err: fmt.Errorf("%w: event store", usecase.ErrDependencyUnavailable), wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable", wantCode: "UNAVAILABLE"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError", wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%+v", tt.err, got)
			}
		})
	}
}
