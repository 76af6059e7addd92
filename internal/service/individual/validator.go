package individual

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/validation"
)

// BeneficiaryID checks the UNIQUE_BENEFICIARY_ID identifier of new
// individuals: the id was dispatched from the pool to the calling user and
// is not claimed twice in the same request. Masked ids are not checked.
type BeneficiaryID struct {
	pool idPool
}

// NewBeneficiaryID creates the validator.
func NewBeneficiaryID(pool idPool) *BeneficiaryID {
	return &BeneficiaryID{pool: pool}
}

func (*BeneficiaryID) Name() string { return "beneficiary_id" }
func (*BeneficiaryID) Order() int   { return validation.OrderDomain + 1 }

func (*BeneficiaryID) Applies(op validation.Operation) bool { return op == validation.OpCreate }

func (v *BeneficiaryID) Validate(ctx context.Context, req domain.BulkRequest[*domain.Individual]) (validation.ErrorMap[*domain.Individual], error) {
	errs := make(validation.ErrorMap[*domain.Individual])
	if len(req.Entities) == 0 {
		return errs, nil
	}
	userID := req.RequestInfo.UserUUID()

	duplicates(errs, req.Entities)

	var ids []string
	for _, ind := range req.Entities {
		if id, ok := ind.BeneficiaryID(); ok && !masked(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return errs, nil
	}

	tenantID := req.Entities[0].TenantID
	found, err := v.pool.FindByIDsAndStatus(ctx, ids, "", tenantID)
	if err != nil {
		return nil, fmt.Errorf("find beneficiary ids: %w", err)
	}
	records := make(map[string]*domain.IDRecord, len(found))
	for _, r := range found {
		records[r.ID] = r
	}

	used := make(map[string]struct{}, len(ids))
	for _, ind := range req.Entities {
		id, ok := ind.BeneficiaryID()
		if !ok || masked(id) {
			continue
		}
		r, exists := records[id]
		switch {
		case !exists:
			errs.Add(ind, invalid(domain.CodeInvalidBeneficiaryID,
				fmt.Sprintf("The beneficiary id '%s' does not exist", id)))
		case r.Status != domain.IDStatusDispatched.String():
			errs.Add(ind, invalid(domain.CodeInvalidBeneficiaryID,
				fmt.Sprintf("The beneficiary id '%s' status is not in DISPATCHED state", id)))
		case r.AuditDetails == nil || r.AuditDetails.LastModifiedBy != userID:
			errs.Add(ind, invalid(domain.CodeInvalidUserID,
				fmt.Sprintf("This beneficiary id '%s' is dispatched to another user", id)))
		default:
			if _, dup := used[id]; dup {
				errs.Add(ind, invalid(domain.CodeInvalidBeneficiaryID,
					fmt.Sprintf("This beneficiary id '%s' is duplicated for multiple individuals", id)))
			}
		}
		used[id] = struct{}{}
	}
	return errs, nil
}

// duplicates flags every individual after the first that carries an already
// seen beneficiary id.
func duplicates(errs validation.ErrorMap[*domain.Individual], individuals []*domain.Individual) {
	seen := make(map[string]struct{})
	for _, ind := range individuals {
		dup := false
		for _, idf := range ind.Identifiers {
			if idf == nil || !strings.EqualFold(idf.IdentifierType, domain.IdentifierUniqueBeneficiaryID) || masked(idf.IdentifierID) {
				continue
			}
			if _, ok := seen[idf.IdentifierID]; ok {
				dup = true
			}
			seen[idf.IdentifierID] = struct{}{}
		}
		if dup {
			errs.Add(ind, domain.NewError(domain.CodeDuplicateEntity,
				"Duplicate sub entity", domain.NonRecoverable, nil))
		}
	}
}

func masked(id string) bool { return strings.Contains(id, "*") }

func invalid(code, msg string) domain.Error {
	return domain.NewError(code, msg, domain.NonRecoverable, domain.NewCustomError(code, msg))
}
