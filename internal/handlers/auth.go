package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type userPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl,omitempty"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
}

type sessionPayload struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      userPayload `json:"user"`
}

// AuthHandlers exposes the Google sign-in exchange and the current-user endpoint.
type AuthHandlers struct {
	authn *auth.Authenticator
	svc   services.AuthService
}

// NewAuthHandlers constructs a new AuthHandlers instance.
func NewAuthHandlers(authn *auth.Authenticator, svc services.AuthService) *AuthHandlers {
	return &AuthHandlers{authn: authn, svc: svc}
}

// Routes registers the /auth endpoints. The Google exchange is public; /me
// requires a bearer token.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/google", h.loginWithGoogle)
	r.Group(func(protected chi.Router) {
		if h.authn != nil {
			protected.Use(h.authn.RequireAuth())
		}
		protected.Get("/me", h.currentUser)
	})
}

func (h *AuthHandlers) loginWithGoogle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_service_unavailable", "auth service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req googleLoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "idToken is required", http.StatusBadRequest))
		return
	}

	session, err := h.svc.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionPayload{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User:      buildUserPayload(session.User),
	})
}

func (h *AuthHandlers) currentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_service_unavailable", "auth service unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	user, err := h.svc.CurrentUser(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildUserPayload(user))
}

func buildUserPayload(user domain.User) userPayload {
	payload := userPayload{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PictureURL:  user.PictureURL,
	}
	if user.LastLoginAt != nil {
		payload.LastLoginAt = user.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return payload
}
