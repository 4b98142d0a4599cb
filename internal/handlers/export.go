package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/httpx"
	"github.com/lancer-works/api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandlers streams the per-account spreadsheet export.
type ExportHandlers struct {
	authn *auth.Authenticator
	svc   services.ExportService
	now   func() time.Time
}

// NewExportHandlers constructs a new ExportHandlers instance.
func NewExportHandlers(authn *auth.Authenticator, svc services.ExportService) *ExportHandlers {
	return &ExportHandlers{authn: authn, svc: svc, now: time.Now}
}

// Routes registers the /export endpoint.
func (h *ExportHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.export)
}

func (h *ExportHandlers) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc == nil {
		httpx.WriteError(ctx, w, httpx.NewError("export_service_unavailable", "export service unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	data, err := h.svc.Workbook(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	filename := fmt.Sprintf("lancer-export-%s.xlsx", h.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
