package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

const productAssetPrefix = "products"

type productPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ArtistID    *uint           `json:"artistId,omitempty"`
	BaseID      *uint           `json:"baseId,omitempty"`
	AdImageURL  string          `json:"adImageUrl,omitempty"`
	Available   bool            `json:"available"`
}

// ProductHandlers exposes product endpoints including the ad image upload.
type ProductHandlers struct {
	authn         *auth.Authenticator
	svc           services.ProductService
	assets        services.AssetService
	uploadMaxSize int64
}

// NewProductHandlers constructs a new ProductHandlers instance.
func NewProductHandlers(authn *auth.Authenticator, svc services.ProductService, assets services.AssetService, uploadMaxSize int64) *ProductHandlers {
	return &ProductHandlers{
		authn:         authn,
		svc:           svc,
		assets:        assets,
		uploadMaxSize: uploadMaxSize,
	}
}

// Routes registers the /products endpoints.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Get("/available", h.listAvailable)
	r.Post("/", h.create)
	r.Get("/{productID}", h.get)
	r.Put("/{productID}", h.update)
	r.Delete("/{productID}", h.remove)
}

func (h *ProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	products, err := h.svc.ListProducts(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildProductPayloads(ctx, products))
}

func (h *ProductHandlers) listAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	products, err := h.svc.ListAvailableProducts(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildProductPayloads(ctx, products))
}

func (h *ProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	input, storedKey, ok := h.decodeProductForm(w, r)
	if !ok {
		return
	}

	product, err := h.svc.CreateProduct(ctx, identity.UserID, input)
	if err != nil {
		h.assets.Remove(ctx, storedKey)
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, h.buildProductPayload(ctx, product))
}

func (h *ProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "productID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	product, err := h.svc.GetProduct(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildProductPayload(ctx, product))
}

func (h *ProductHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "productID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	previous, err := h.svc.GetProduct(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	input, storedKey, ok := h.decodeProductForm(w, r)
	if !ok {
		return
	}

	product, err := h.svc.UpdateProduct(ctx, identity.UserID, id, input)
	if err != nil {
		h.assets.Remove(ctx, storedKey)
		writeServiceError(ctx, w, err)
		return
	}

	if input.AdImageKey != "" && previous.AdImageKey != "" {
		h.assets.Remove(ctx, previous.AdImageKey)
	}

	writeJSONResponse(w, http.StatusOK, h.buildProductPayload(ctx, product))
}

func (h *ProductHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "productID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	product, err := h.svc.DeleteProduct(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	h.assets.Remove(ctx, product.AdImageKey)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandlers) decodeProductForm(w http.ResponseWriter, r *http.Request) (services.ProductInput, string, bool) {
	ctx := r.Context()

	if err := parseMultipartForm(r, h.uploadMaxSize); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request must be a multipart form", http.StatusBadRequest))
		return services.ProductInput{}, "", false
	}
	form := r.MultipartForm

	price, err := formDecimal(form, "price")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ProductInput{}, "", false
	}
	artistID, err := formOptionalUint(form, "artistId")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ProductInput{}, "", false
	}
	baseID, err := formOptionalUint(form, "baseId")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ProductInput{}, "", false
	}
	available, err := formBool(form, "available")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ProductInput{}, "", false
	}

	input := services.ProductInput{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
		Price:       price,
		ArtistID:    artistID,
		BaseID:      baseID,
		Available:   available,
	}

	var storedKey string
	if upload, cleanup, found, err := formFileUpload(r, "adImage"); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return services.ProductInput{}, "", false
	} else if found {
		key, storeErr := h.assets.StoreImage(ctx, productAssetPrefix, upload)
		cleanup()
		if storeErr != nil {
			writeServiceError(ctx, w, storeErr)
			return services.ProductInput{}, "", false
		}
		input.AdImageKey = key
		storedKey = key
	}

	return input, storedKey, true
}

func (h *ProductHandlers) buildProductPayloads(ctx context.Context, products []domain.Product) []productPayload {
	payload := make([]productPayload, 0, len(products))
	for _, product := range products {
		payload = append(payload, h.buildProductPayload(ctx, product))
	}
	return payload
}

func (h *ProductHandlers) buildProductPayload(ctx context.Context, product domain.Product) productPayload {
	payload := productPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ArtistID:    product.ArtistID,
		BaseID:      product.BaseID,
		Available:   product.Available,
	}
	if url, err := h.assets.ResolveURL(ctx, product.AdImageKey); err == nil {
		payload.AdImageURL = url
	}
	return payload
}
