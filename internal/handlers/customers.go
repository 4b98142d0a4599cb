package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type customerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Discord     string `json:"discord"`
	Twitter     string `json:"twitter"`
	Furaffinity string `json:"furaffinity"`
	Instagram   string `json:"instagram"`
	Telegram    string `json:"telegram"`
	OtherName   string `json:"otherName"`
	OtherLink   string `json:"otherLink"`
}

type customerPayload struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Discord     string `json:"discord,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Furaffinity string `json:"furaffinity,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	OtherName   string `json:"otherName,omitempty"`
	OtherLink   string `json:"otherLink,omitempty"`
}

// CustomerHandlers exposes customer CRUD endpoints.
type CustomerHandlers struct {
	authn *auth.Authenticator
	svc   services.CustomerService
}

// NewCustomerHandlers constructs a new CustomerHandlers instance.
func NewCustomerHandlers(authn *auth.Authenticator, svc services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{authn: authn, svc: svc}
}

// Routes registers the /customers endpoints.
func (h *CustomerHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{customerID}", h.get)
	r.Put("/{customerID}", h.update)
	r.Delete("/{customerID}", h.remove)
}

func (h *CustomerHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	customers, err := h.svc.List(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := make([]customerPayload, 0, len(customers))
	for _, customer := range customers {
		payload = append(payload, buildCustomerPayload(customer))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *CustomerHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	var req customerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	customer, err := h.svc.Create(ctx, identity.UserID, customerInputFromRequest(req))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildCustomerPayload(customer))
}

func (h *CustomerHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "customerID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	customer, err := h.svc.Get(ctx, identity.UserID, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCustomerPayload(customer))
}

func (h *CustomerHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "customerID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req customerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	customer, err := h.svc.Update(ctx, identity.UserID, id, customerInputFromRequest(req))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCustomerPayload(customer))
}

func (h *CustomerHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "customerID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.svc.Delete(ctx, identity.UserID, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func customerInputFromRequest(req customerRequest) services.CustomerInput {
	return services.CustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Discord:     req.Discord,
		Twitter:     req.Twitter,
		Furaffinity: req.Furaffinity,
		Instagram:   req.Instagram,
		Telegram:    req.Telegram,
		OtherName:   req.OtherName,
		OtherLink:   req.OtherLink,
	}
}

func buildCustomerPayload(customer domain.Customer) customerPayload {
	return customerPayload{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		Discord:     customer.Discord,
		Twitter:     customer.Twitter,
		Furaffinity: customer.Furaffinity,
		Instagram:   customer.Instagram,
		Telegram:    customer.Telegram,
		OtherName:   customer.OtherName,
		OtherLink:   customer.OtherLink,
	}
}
