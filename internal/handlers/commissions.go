package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type commissionRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type"`
	Slots       int             `json:"slots"`
	ArtistID    *uint           `json:"artistId"`
	BaseID      *uint           `json:"baseId"`
	AdImageURL  string          `json:"adImageUrl"`
}

type commissionPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type"`
	Slots       int             `json:"slots"`
	ArtistID    *uint           `json:"artistId,omitempty"`
	BaseID      *uint           `json:"baseId,omitempty"`
	AdImageURL  string          `json:"adImageUrl,omitempty"`
}

// CommissionHandlers exposes commission offering CRUD endpoints.
type CommissionHandlers struct {
	authn *auth.Authenticator
	svc   services.ProductService
}

// NewCommissionHandlers constructs a new CommissionHandlers instance.
func NewCommissionHandlers(authn *auth.Authenticator, svc services.ProductService) *CommissionHandlers {
	return &CommissionHandlers{authn: authn, svc: svc}
}

// Routes registers the /commissions endpoints.
func (h *CommissionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{commissionID}", h.get)
	r.Put("/{commissionID}", h.update)
	r.Delete("/{commissionID}", h.remove)
}

func (h *CommissionHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	commissions, err := h.svc.ListCommissions(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := make([]commissionPayload, 0, len(commissions))
	for _, commission := range commissions {
		payload = append(payload, buildCommissionPayload(commission))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *CommissionHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	var req commissionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	commission, err := h.svc.CreateCommission(ctx, identity.UserID, commissionInputFromRequest(req))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildCommissionPayload(commission))
}

func (h *CommissionHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "commissionID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	commission, err := h.svc.GetCommission(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCommissionPayload(commission))
}

func (h *CommissionHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "commissionID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req commissionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	commission, err := h.svc.UpdateCommission(ctx, identity.UserID, id, commissionInputFromRequest(req))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCommissionPayload(commission))
}

func (h *CommissionHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "commissionID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.svc.DeleteCommission(ctx, identity.UserID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func commissionInputFromRequest(req commissionRequest) services.CommissionInput {
	return services.CommissionInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        domain.CommissionType(req.Type),
		Slots:       req.Slots,
		ArtistID:    req.ArtistID,
		BaseID:      req.BaseID,
		AdImageURL:  req.AdImageURL,
	}
}

func buildCommissionPayload(commission domain.Commission) commissionPayload {
	return commissionPayload{
		ID:          commission.ID,
		Name:        commission.Name,
		Description: commission.Description,
		Price:       commission.Price,
		Type:        string(commission.Type),
		Slots:       commission.Slots,
		ArtistID:    commission.ArtistID,
		BaseID:      commission.BaseID,
		AdImageURL:  commission.AdImageURL,
	}
}
