package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/lancer-works/api/internal/domain"
)

func TestHealthzReportsUptime(t *testing.T) {
	h := NewHealthHandlers(WithHealthClock(fixedTime))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("status field = %v", payload["status"])
	}
}

func TestReadyzReflectsDependencyReport(t *testing.T) {
	now := fixedTime()
	h := NewHealthHandlers(
		WithHealthClock(func() time.Time { return now }),
		WithHealthRepository(&stubHealthRepository{
			report: domain.HealthReport{
				Status: domain.HealthStatusOK,
				Checks: map[string]domain.HealthCheck{
					"database": {Status: domain.HealthStatusOK, Detail: "ok", Latency: 12 * time.Millisecond, CheckedAt: now},
				},
				GeneratedAt: now,
			},
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload readinessPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("status = %q", payload.Status)
	}
	if check, ok := payload.Checks["database"]; !ok || check.Status != "ok" {
		t.Fatalf("checks = %+v", payload.Checks)
	}
}

func TestReadyzDegradedReturns503(t *testing.T) {
	h := NewHealthHandlers(WithHealthRepository(&stubHealthRepository{
		report: domain.HealthReport{
			Status:      domain.HealthStatusDegraded,
			GeneratedAt: fixedTime(),
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestReadyzCollectFailureReturns503(t *testing.T) {
	h := NewHealthHandlers(WithHealthRepository(&stubHealthRepository{
		err: errors.New("probe exploded"),
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
