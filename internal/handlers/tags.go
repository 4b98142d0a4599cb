package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type tagRequest struct {
	Name string `json:"name"`
}

type tagPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TagHandlers exposes tag CRUD endpoints.
type TagHandlers struct {
	authn *auth.Authenticator
	svc   services.CatalogService
}

// NewTagHandlers constructs a new TagHandlers instance.
func NewTagHandlers(authn *auth.Authenticator, svc services.CatalogService) *TagHandlers {
	return &TagHandlers{authn: authn, svc: svc}
}

// Routes registers the /tags endpoints.
func (h *TagHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{tagID}", h.get)
	r.Put("/{tagID}", h.update)
	r.Delete("/{tagID}", h.remove)
}

func (h *TagHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	tags, err := h.svc.ListTags(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := make([]tagPayload, 0, len(tags))
	for _, tag := range tags {
		payload = append(payload, buildTagPayload(tag))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *TagHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	var req tagRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	tag, err := h.svc.CreateTag(ctx, identity.UserID, services.TagInput{Name: req.Name})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildTagPayload(tag))
}

func (h *TagHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "tagID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	tag, err := h.svc.GetTag(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildTagPayload(tag))
}

func (h *TagHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "tagID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req tagRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	tag, err := h.svc.UpdateTag(ctx, identity.UserID, id, services.TagInput{Name: req.Name})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildTagPayload(tag))
}

func (h *TagHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "tagID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.svc.DeleteTag(ctx, identity.UserID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func buildTagPayload(tag domain.Tag) tagPayload {
	return tagPayload{ID: tag.ID, Name: tag.Name}
}
