package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

type orderLineRequest struct {
	ProductID     uint             `json:"productId"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	DiscountLabel string           `json:"discountLabel"`
	Discount      decimal.Decimal  `json:"discount"`
	Notes         string           `json:"notes"`
	Version       int              `json:"version"`
}

type orderRequest struct {
	CustomerID   *uint              `json:"customerId"`
	CommissionID *uint              `json:"commissionId"`
	Status       string             `json:"status"`
	OrderDate    *string            `json:"orderDate"`
	Details      string             `json:"details"`
	Notes        string             `json:"notes"`
	DiscountNote string             `json:"discountNote"`
	Paid         bool               `json:"paid"`
	Posted       bool               `json:"posted"`
	StartedAt    *string            `json:"startedAt"`
	DueAt        *string            `json:"dueAt"`
	Version      int                `json:"version"`
	Lines        []orderLineRequest `json:"lines"`
}

type orderLinePayload struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"productId"`
	ProductName   string          `json:"productName,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	DiscountLabel string          `json:"discountLabel,omitempty"`
	Discount      decimal.Decimal `json:"discount"`
	NetPrice      decimal.Decimal `json:"netPrice"`
	Notes         string          `json:"notes,omitempty"`
	Version       int             `json:"version"`
}

type orderPayload struct {
	ID           uint               `json:"id"`
	CustomerID   *uint              `json:"customerId,omitempty"`
	CustomerName string             `json:"customerName,omitempty"`
	CommissionID *uint              `json:"commissionId,omitempty"`
	Status       string             `json:"status"`
	OrderDate    string             `json:"orderDate"`
	Details      string             `json:"details,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	DiscountNote string             `json:"discountNote,omitempty"`
	Total        decimal.Decimal    `json:"total"`
	Paid         bool               `json:"paid"`
	Posted       bool               `json:"posted"`
	StartedAt    *string            `json:"startedAt,omitempty"`
	DueAt        *string            `json:"dueAt,omitempty"`
	CompletedAt  *string            `json:"completedAt,omitempty"`
	Version      int                `json:"version"`
	Lines        []orderLinePayload `json:"lines"`
}

// OrderHandlers exposes order and order line endpoints.
type OrderHandlers struct {
	authn *auth.Authenticator
	svc   services.OrderService
}

// NewOrderHandlers constructs a new OrderHandlers instance.
func NewOrderHandlers(authn *auth.Authenticator, svc services.OrderService) *OrderHandlers {
	return &OrderHandlers{authn: authn, svc: svc}
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/top", h.topActive)
	r.Get("/{orderID}", h.get)
	r.Put("/{orderID}", h.update)
	r.Delete("/{orderID}", h.remove)

	r.Post("/{orderID}/lines", h.addLine)
	r.Put("/{orderID}/lines/{lineID}", h.updateLine)
	r.Delete("/{orderID}/lines/{lineID}", h.removeLine)
}

func (h *OrderHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	query := r.URL.Query()
	var filter services.OrderListFilter
	if raw := strings.TrimSpace(query.Get("customerId")); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || value == 0 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "customerId must be a positive integer", http.StatusBadRequest))
			return
		}
		id := uint(value)
		filter.CustomerID = &id
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}

	orders, err := h.svc.List(ctx, identity.UserID, filter)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayloads(orders))
}

func (h *OrderHandlers) topActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	orders, err := h.svc.TopActive(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayloads(orders))
}

func (h *OrderHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	var req orderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	startedAt, err := parseOptionalTime(req.StartedAt, "startedAt")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}
	dueAt, err := parseOptionalTime(req.DueAt, "dueAt")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}
	orderDate, err := parseOptionalTime(req.OrderDate, "orderDate")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}

	input := services.CreateOrderInput{
		CustomerID:   req.CustomerID,
		CommissionID: req.CommissionID,
		Status:       domain.OrderStatus(req.Status),
		OrderDate:    orderDate,
		Details:      req.Details,
		Notes:        req.Notes,
		DiscountNote: req.DiscountNote,
		Paid:         req.Paid,
		Posted:       req.Posted,
		StartedAt:    startedAt,
		DueAt:        dueAt,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, services.OrderLineInput{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountLabel: line.DiscountLabel,
			Discount:      line.Discount,
			Notes:         line.Notes,
		})
	}

	order, err := h.svc.Create(ctx, identity.UserID, input)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildOrderPayload(order))
}

func (h *OrderHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	order, err := h.svc.Get(ctx, identity.UserID, orderID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayload(order))
}

func (h *OrderHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req orderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	startedAt, err := parseOptionalTime(req.StartedAt, "startedAt")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}
	dueAt, err := parseOptionalTime(req.DueAt, "dueAt")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}
	orderDate, err := parseOptionalTime(req.OrderDate, "orderDate")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", err.Error(), http.StatusBadRequest))
		return
	}

	order, err := h.svc.Update(ctx, identity.UserID, orderID, services.UpdateOrderInput{
		CustomerID:   req.CustomerID,
		CommissionID: req.CommissionID,
		Status:       domain.OrderStatus(req.Status),
		OrderDate:    orderDate,
		Details:      req.Details,
		Notes:        req.Notes,
		DiscountNote: req.DiscountNote,
		Paid:         req.Paid,
		Posted:       req.Posted,
		StartedAt:    startedAt,
		DueAt:        dueAt,
		Version:      req.Version,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayload(order))
}

func (h *OrderHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.svc.Delete(ctx, identity.UserID, orderID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandlers) addLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req orderLineRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	order, err := h.svc.AddLine(ctx, identity.UserID, orderID, services.OrderLineInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		DiscountLabel: req.DiscountLabel,
		Discount:      req.Discount,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildOrderPayload(order))
}

func (h *OrderHandlers) updateLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	lineID, err := parseIDParam(r, "lineID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req orderLineRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	order, err := h.svc.UpdateLine(ctx, identity.UserID, orderID, lineID, services.UpdateOrderLineInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		DiscountLabel: req.DiscountLabel,
		Discount:      req.Discount,
		Notes:         req.Notes,
		Version:       req.Version,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayload(order))
}

func (h *OrderHandlers) removeLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	lineID, err := parseIDParam(r, "lineID")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	order, err := h.svc.DeleteLine(ctx, identity.UserID, orderID, lineID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildOrderPayload(order))
}

func parseOptionalTime(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, &timeParseError{field: field}
	}
	return &ts, nil
}

type timeParseError struct {
	field string
}

func (e *timeParseError) Error() string {
	return e.field + " must be an RFC3339 timestamp"
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

func buildOrderPayloads(orders []domain.Order) []orderPayload {
	payload := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		payload = append(payload, buildOrderPayload(order))
	}
	return payload
}

func buildOrderPayload(order domain.Order) orderPayload {
	payload := orderPayload{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CommissionID: order.CommissionID,
		Status:       string(order.Status),
		OrderDate:    order.OrderDate.UTC().Format(time.RFC3339),
		Details:      order.Details,
		Notes:        order.Notes,
		DiscountNote: order.DiscountNote,
		Total:        order.Total,
		Paid:         order.Paid,
		Posted:       order.Posted,
		StartedAt:    formatOptionalTime(order.StartedAt),
		DueAt:        formatOptionalTime(order.DueAt),
		CompletedAt:  formatOptionalTime(order.CompletedAt),
		Version:      order.Version,
		Lines:        make([]orderLinePayload, 0, len(order.Lines)),
	}
	if order.Customer != nil {
		payload.CustomerName = order.Customer.Name
	}
	for _, line := range order.Lines {
		linePayload := orderLinePayload{
			ID:            line.ID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountLabel: line.DiscountLabel,
			Discount:      line.Discount,
			NetPrice:      line.NetPrice,
			Notes:         line.Notes,
			Version:       line.Version,
		}
		if line.Product != nil {
			linePayload.ProductName = line.Product.Name
		}
		payload.Lines = append(payload.Lines, linePayload)
	}
	return payload
}
