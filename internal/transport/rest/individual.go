package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/health-registry/internal/domain"
)

type individualService interface {
	Create(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	Update(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	Delete(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	Search(ctx context.Context, search domain.IndividualSearch) ([]*domain.Individual, error)
}

// IndividualHandler serves the individual registry.
type IndividualHandler struct {
	log *slog.Logger
	svc individualService
}

// NewIndividualHandler creates an IndividualHandler.
func NewIndividualHandler(log *slog.Logger, svc individualService) *IndividualHandler {
	return &IndividualHandler{log: log.With("handler", "individual"), svc: svc}
}

// RegisterRoutes mounts the individual endpoints on mux.
func (h *IndividualHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /individual/v1/_create", singleHandler(h.log, "Individual", h.svc.Create))
	mux.Handle("POST /individual/v1/bulk/_create", bulkHandler(h.log, "Individuals", h.svc.Create))
	mux.Handle("POST /individual/v1/_update", singleHandler(h.log, "Individual", h.svc.Update))
	mux.Handle("POST /individual/v1/bulk/_update", bulkHandler(h.log, "Individuals", h.svc.Update))
	mux.Handle("POST /individual/v1/_delete", singleHandler(h.log, "Individual", h.svc.Delete))
	mux.Handle("POST /individual/v1/bulk/_delete", bulkHandler(h.log, "Individuals", h.svc.Delete))
	mux.HandleFunc("POST /individual/v1/_search", h.Search)
}

type individualSearchRequest struct {
	RequestInfo domain.RequestInfo      `json:"RequestInfo"`
	Individual  domain.IndividualSearch `json:"Individual"`
}

// Search finds individuals. tenantId, limit, offset and includeDeleted may
// be given as query parameters and take precedence over the body.
func (h *IndividualHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req individualSearchRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	search := req.Individual
	q := r.URL.Query()
	if t := q.Get("tenantId"); t != "" {
		search.TenantID = t
	}
	if q.Has("limit") {
		limit, err := queryInt(r, "limit", 0)
		if err != nil {
			writeServiceError(w, r, h.log, err)
			return
		}
		search.Limit = limit
	}
	if q.Has("offset") {
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeServiceError(w, r, h.log, err)
			return
		}
		search.Offset = offset
	}
	if raw := q.Get("includeDeleted"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeServiceError(w, r, h.log, domain.NewCustomError(domain.CodeValidationError, "includeDeleted must be a boolean"))
			return
		}
		search.IncludeDeleted = include
	}
	if search.TenantID == "" {
		writeServiceError(w, r, h.log, domain.NewCustomError(domain.CodeValidationError, "tenantId is required"))
		return
	}

	found, err := h.svc.Search(r.Context(), search)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ResponseInfo": responseInfo(req.RequestInfo, true),
		"Individual":   found,
	})
}
