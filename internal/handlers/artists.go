package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type artistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SocialLink  string `json:"socialLink"`
}

type artistPayload struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SocialLink  string `json:"socialLink,omitempty"`
}

// ArtistHandlers exposes artist CRUD endpoints.
type ArtistHandlers struct {
	authn *auth.Authenticator
	svc   services.CatalogService
}

// NewArtistHandlers constructs a new ArtistHandlers instance.
func NewArtistHandlers(authn *auth.Authenticator, svc services.CatalogService) *ArtistHandlers {
	return &ArtistHandlers{authn: authn, svc: svc}
}

// Routes registers the /artists endpoints.
func (h *ArtistHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{artistID}", h.get)
	r.Put("/{artistID}", h.update)
	r.Delete("/{artistID}", h.remove)
}

func (h *ArtistHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	artists, err := h.svc.ListArtists(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := make([]artistPayload, 0, len(artists))
	for _, artist := range artists {
		payload = append(payload, buildArtistPayload(artist))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *ArtistHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	var req artistRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	artist, err := h.svc.CreateArtist(ctx, identity.UserID, services.ArtistInput{
		Name:        req.Name,
		Description: req.Description,
		SocialLink:  req.SocialLink,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildArtistPayload(artist))
}

func (h *ArtistHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "artistID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	artist, err := h.svc.GetArtist(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildArtistPayload(artist))
}

func (h *ArtistHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "artistID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req artistRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	artist, err := h.svc.UpdateArtist(ctx, identity.UserID, id, services.ArtistInput{
		Name:        req.Name,
		Description: req.Description,
		SocialLink:  req.SocialLink,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildArtistPayload(artist))
}

func (h *ArtistHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "artistID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.svc.DeleteArtist(ctx, identity.UserID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func buildArtistPayload(artist domain.Artist) artistPayload {
	return artistPayload{
		ID:          artist.ID,
		Name:        artist.Name,
		Description: artist.Description,
		SocialLink:  artist.SocialLink,
	}
}
