package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/health-registry/internal/domain"
)

type beneficiaryService interface {
	Create(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)
	Update(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)
	Delete(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)
}

// BeneficiaryHandler serves project beneficiary registration.
type BeneficiaryHandler struct {
	log *slog.Logger
	svc beneficiaryService
}

// NewBeneficiaryHandler creates a BeneficiaryHandler.
func NewBeneficiaryHandler(log *slog.Logger, svc beneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{log: log.With("handler", "project_beneficiary"), svc: svc}
}

// RegisterRoutes mounts the project beneficiary endpoints on mux.
func (h *BeneficiaryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /project/beneficiary/v1/_create", singleHandler(h.log, "ProjectBeneficiary", h.svc.Create))
	mux.Handle("POST /project/beneficiary/v1/bulk/_create", bulkHandler(h.log, "ProjectBeneficiaries", h.svc.Create))
	mux.Handle("POST /project/beneficiary/v1/_update", singleHandler(h.log, "ProjectBeneficiary", h.svc.Update))
	mux.Handle("POST /project/beneficiary/v1/bulk/_update", bulkHandler(h.log, "ProjectBeneficiaries", h.svc.Update))
	mux.Handle("POST /project/beneficiary/v1/_delete", singleHandler(h.log, "ProjectBeneficiary", h.svc.Delete))
	mux.Handle("POST /project/beneficiary/v1/bulk/_delete", bulkHandler(h.log, "ProjectBeneficiaries", h.svc.Delete))
}
