package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type auditService interface {
	List(ctx context.Context) ([]domain.AuditLog, error)
	ByTable(ctx context.Context, table string) ([]domain.AuditLog, error)
	ByEntity(ctx context.Context, table, entityID string) ([]domain.AuditLog, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]domain.AuditLog, error)
}

// AuditHandler is read only; audit rows are written by the commit hook.
type AuditHandler struct {
	svc auditService
	log *zap.Logger
}

func NewAuditHandler(svc auditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/table/{table}", h.byTable)
	r.Get("/entity/{table}/{entityID}", h.byEntity)
	r.Get("/date-range", h.byDateRange)
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.List(r.Context())
	h.respond(w, logs, err)
}

func (h *AuditHandler) byTable(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ByTable(r.Context(), chi.URLParam(r, "table"))
	h.respond(w, logs, err)
}

func (h *AuditHandler) byEntity(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ByEntity(r.Context(), chi.URLParam(r, "table"), chi.URLParam(r, "entityID"))
	h.respond(w, logs, err)
}

// byDateRange expects RFC 3339 timestamps in startDate and endDate.
func (h *AuditHandler) byDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("startDate"))
	if err != nil {
		writeError(w, h.log, domain.NewValidationError("startDate", "must be an RFC 3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("endDate"))
	if err != nil {
		writeError(w, h.log, domain.NewValidationError("endDate", "must be an RFC 3339 timestamp"))
		return
	}
	logs, err := h.svc.ByDateRange(r.Context(), start, end)
	h.respond(w, logs, err)
}

func (h *AuditHandler) respond(w http.ResponseWriter, logs []domain.AuditLog, err error) {
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	ok(w, http.StatusOK, "Audit logs listed", logs)
}
