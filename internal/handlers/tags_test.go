package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/services"
)

func newTagRouter(svc services.CatalogService) http.Handler {
	h := NewTagHandlers(testAuthenticator(), svc)
	return NewRouter(WithTagRoutes(h.Routes))
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestTagCreateReturnsCreated(t *testing.T) {
	svc := &stubCatalogService{
		createTagFn: func(_ context.Context, userID string, input services.TagInput) (domain.Tag, error) {
			if userID != testUserID {
				t.Fatalf("userID = %q", userID)
			}
			return domain.Tag{ID: 7, UserID: userID, Name: input.Name}, nil
		},
	}
	r := newTagRouter(svc)

	req := authedRequest(http.MethodPost, "/api/v1/tags/", `{"name":"Canine"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var payload tagPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.ID != 7 || payload.Name != "Canine" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTagCreateDuplicateReturnsConflict(t *testing.T) {
	svc := &stubCatalogService{
		createTagFn: func(context.Context, string, services.TagInput) (domain.Tag, error) {
			return domain.Tag{}, fmt.Errorf("%w: %q", services.ErrTagNameTaken, "canine")
		},
	}
	r := newTagRouter(svc)

	req := authedRequest(http.MethodPost, "/api/v1/tags/", `{"name":"canine"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "duplicate_name" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestTagDeleteInUseReturnsConflict(t *testing.T) {
	svc := &stubCatalogService{
		deleteTagFn: func(context.Context, string, uint) error {
			return services.ErrTagInUse
		},
	}
	r := newTagRouter(svc)

	req := authedRequest(http.MethodDelete, "/api/v1/tags/3", "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestTagRoutesRequireAuth(t *testing.T) {
	r := newTagRouter(&stubCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTagInvalidIDReturnsBadRequest(t *testing.T) {
	r := newTagRouter(&stubCatalogService{})

	req := authedRequest(http.MethodDelete, "/api/v1/tags/abc", "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
