package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

const baseAssetPrefix = "bases"

type artistBasePayload struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ArtistID      *uint           `json:"artistId,omitempty"`
	ArtistName    string          `json:"artistName,omitempty"`
	Tags          []tagPayload    `json:"tags"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	SourceFileURL string          `json:"sourceFileUrl,omitempty"`
}

// ArtistBaseHandlers exposes artist base endpoints including file uploads and search.
type ArtistBaseHandlers struct {
	authn         *auth.Authenticator
	svc           services.CatalogService
	assets        services.AssetService
	uploadMaxSize int64
}

// NewArtistBaseHandlers constructs a new ArtistBaseHandlers instance.
func NewArtistBaseHandlers(authn *auth.Authenticator, svc services.CatalogService, assets services.AssetService, uploadMaxSize int64) *ArtistBaseHandlers {
	return &ArtistBaseHandlers{
		authn:         authn,
		svc:           svc,
		assets:        assets,
		uploadMaxSize: uploadMaxSize,
	}
}

// Routes registers the /artist-bases endpoints.
func (h *ArtistBaseHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Post("/", h.create)
	r.Get("/{baseID}", h.get)
	r.Put("/{baseID}", h.update)
	r.Delete("/{baseID}", h.remove)
}

func (h *ArtistBaseHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	bases, err := h.svc.ListArtistBases(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildBasePayloads(ctx, bases))
}

func (h *ArtistBaseHandlers) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	query := r.URL.Query()
	input := services.ArtistBaseSearchInput{
		Name: strings.TrimSpace(query.Get("name")),
	}
	for _, raw := range query["tags"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.ParseUint(part, 10, 32)
			if err != nil || value == 0 {
				httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "tags must be positive integer tag ids", http.StatusBadRequest))
				return
			}
			input.TagIDs = append(input.TagIDs, uint(value))
		}
	}
	if raw := strings.TrimSpace(query.Get("minPrice")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "minPrice must be a decimal number", http.StatusBadRequest))
			return
		}
		input.MinPrice = &value
	}
	if raw := strings.TrimSpace(query.Get("maxPrice")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "maxPrice must be a decimal number", http.StatusBadRequest))
			return
		}
		input.MaxPrice = &value
	}

	bases, err := h.svc.SearchArtistBases(ctx, identity.UserID, input)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildBasePayloads(ctx, bases))
}

func (h *ArtistBaseHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	input, storedKeys, ok := h.decodeBaseForm(w, r)
	if !ok {
		return
	}

	base, err := h.svc.CreateArtistBase(ctx, identity.UserID, input)
	if err != nil {
		h.removeKeys(ctx, storedKeys)
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, h.buildBasePayload(ctx, base))
}

func (h *ArtistBaseHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "baseID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	base, err := h.svc.GetArtistBase(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildBasePayload(ctx, base))
}

func (h *ArtistBaseHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "baseID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	previous, err := h.svc.GetArtistBase(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	input, storedKeys, ok := h.decodeBaseForm(w, r)
	if !ok {
		return
	}

	base, err := h.svc.UpdateArtistBase(ctx, identity.UserID, id, input)
	if err != nil {
		h.removeKeys(ctx, storedKeys)
		writeServiceError(ctx, w, err)
		return
	}

	// Release replaced files once the row points at the new keys.
	if input.ImageKey != "" && previous.ImageKey != "" {
		h.assets.Remove(ctx, previous.ImageKey)
	}
	if input.SourceFileKey != "" && previous.SourceFileKey != "" {
		h.assets.Remove(ctx, previous.SourceFileKey)
	}

	writeJSONResponse(w, http.StatusOK, h.buildBasePayload(ctx, base))
}

func (h *ArtistBaseHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "baseID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	base, err := h.svc.DeleteArtistBase(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.assets.Remove(ctx, base.ImageKey)
	h.assets.Remove(ctx, base.SourceFileKey)
	w.WriteHeader(http.StatusNoContent)
}

// decodeBaseForm parses the multipart form, streams any file parts to
// storage, and returns the assembled input plus the keys written so the
// caller can roll them back on failure.
func (h *ArtistBaseHandlers) decodeBaseForm(w http.ResponseWriter, r *http.Request) (services.ArtistBaseInput, []string, bool) {
	ctx := r.Context()

	if err := parseMultipartForm(r, h.uploadMaxSize); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request must be a multipart form", http.StatusBadRequest))
		return services.ArtistBaseInput{}, nil, false
	}
	form := r.MultipartForm

	price, err := formDecimal(form, "price")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ArtistBaseInput{}, nil, false
	}
	artistID, err := formOptionalUint(form, "artistId")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ArtistBaseInput{}, nil, false
	}
	tagIDs, err := formUintList(form, "tagIds")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ArtistBaseInput{}, nil, false
	}

	input := services.ArtistBaseInput{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
		Price:       price,
		ArtistID:    artistID,
		TagIDs:      tagIDs,
	}

	var storedKeys []string
	if upload, cleanup, found, err := formFileUpload(r, "image"); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ArtistBaseInput{}, nil, false
	} else if found {
		key, storeErr := h.assets.StoreImage(ctx, baseAssetPrefix, upload)
		cleanup()
		if storeErr != nil {
			writeServiceError(ctx, w, storeErr)
			return services.ArtistBaseInput{}, nil, false
		}
		input.ImageKey = key
		storedKeys = append(storedKeys, key)
	}

	if upload, cleanup, found, err := formFileUpload(r, "sourceFile"); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		h.removeKeys(ctx, storedKeys)
		return services.ArtistBaseInput{}, nil, false
	} else if found {
		key, storeErr := h.assets.StoreBaseFile(ctx, baseAssetPrefix, upload)
		cleanup()
		if storeErr != nil {
			h.removeKeys(ctx, storedKeys)
			writeServiceError(ctx, w, storeErr)
			return services.ArtistBaseInput{}, nil, false
		}
		input.SourceFileKey = key
		storedKeys = append(storedKeys, key)
	}

	return input, storedKeys, true
}

func (h *ArtistBaseHandlers) removeKeys(ctx context.Context, keys []string) {
	for _, key := range keys {
		h.assets.Remove(ctx, key)
	}
}

func (h *ArtistBaseHandlers) buildBasePayloads(ctx context.Context, bases []domain.ArtistBase) []artistBasePayload {
	payload := make([]artistBasePayload, 0, len(bases))
	for _, base := range bases {
		payload = append(payload, h.buildBasePayload(ctx, base))
	}
	return payload
}

func (h *ArtistBaseHandlers) buildBasePayload(ctx context.Context, base domain.ArtistBase) artistBasePayload {
	payload := artistBasePayload{
		ID:          base.ID,
		Name:        base.Name,
		Description: base.Description,
		Price:       base.Price,
		ArtistID:    base.ArtistID,
		Tags:        make([]tagPayload, 0, len(base.Tags)),
	}
	if base.Artist != nil {
		payload.ArtistName = base.Artist.Name
	}
	for _, tag := range base.Tags {
		payload.Tags = append(payload.Tags, buildTagPayload(tag))
	}
	if url, err := h.assets.ResolveURL(ctx, base.ImageKey); err == nil {
		payload.ImageURL = url
	}
	if url, err := h.assets.ResolveURL(ctx, base.SourceFileKey); err == nil {
		payload.SourceFileURL = url
	}
	return payload
}
