package dispatch

import (
	"context"
	"fmt"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/validation"
)

type idFinder interface {
	FindByIDsAndStatus(ctx context.Context, ids []string, status, tenantID string) ([]*domain.IDRecord, error)
}

// IDPoolUpdate checks status updates of pooled ids: the id is set, the
// status is known and the record exists in the tenant's pool.
type IDPoolUpdate struct {
	repo idFinder
}

// NewIDPoolUpdate creates the validator.
func NewIDPoolUpdate(repo idFinder) *IDPoolUpdate {
	return &IDPoolUpdate{repo: repo}
}

func (*IDPoolUpdate) Name() string { return "id_pool_update" }
func (*IDPoolUpdate) Order() int   { return validation.OrderDomain }

func (*IDPoolUpdate) Applies(op validation.Operation) bool { return op == validation.OpUpdate }

func (v *IDPoolUpdate) Validate(ctx context.Context, req domain.BulkRequest[*domain.IDRecord]) (validation.ErrorMap[*domain.IDRecord], error) {
	errs := make(validation.ErrorMap[*domain.IDRecord])

	byTenant := make(map[string][]*domain.IDRecord)
	for _, r := range req.Entities {
		switch {
		case r.ID == "":
			errs.Add(r, domain.NewError(domain.CodeNullID, "Id cannot be null", domain.Recoverable, nil))
		case !domain.IDStatus(r.Status).IsValid():
			errs.Add(r, domain.NewError(domain.CodeInvalidStatus,
				fmt.Sprintf("Invalid status %q for id %s", r.Status, r.ID), domain.Recoverable, nil))
		default:
			byTenant[r.TenantID] = append(byTenant[r.TenantID], r)
		}
	}

	for tenantID, records := range byTenant {
		stored, err := v.repo.FindByIDsAndStatus(ctx, domain.IDs(records), "", tenantID)
		if err != nil {
			return nil, fmt.Errorf("find ids: %w", err)
		}
		found := make(map[string]struct{}, len(stored))
		for _, s := range stored {
			found[s.ID] = struct{}{}
		}
		for _, r := range records {
			if _, ok := found[r.ID]; !ok {
				errs.Add(r, domain.NewError(domain.CodeNonExistentEntity,
					fmt.Sprintf("Id %s does not exist in tenant %s", r.ID, tenantID), domain.NonRecoverable, nil))
			}
		}
	}
	return errs, nil
}
