package beneficiary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/validation"
)

type tagFinder interface {
	FindByTags(ctx context.Context, tenantID string, tags []string) ([]*domain.ProjectBeneficiary, error)
}

// VoucherTagUnique rejects updates that give a beneficiary a voucher tag
// already held by another beneficiary, or by an earlier item of the same
// request.
type VoucherTagUnique struct {
	repo tagFinder
}

// NewVoucherTagUnique creates the validator.
func NewVoucherTagUnique(repo tagFinder) *VoucherTagUnique {
	return &VoucherTagUnique{repo: repo}
}

func (*VoucherTagUnique) Name() string { return "voucher_tag_unique" }
func (*VoucherTagUnique) Order() int   { return validation.OrderDomain }

func (*VoucherTagUnique) Applies(op validation.Operation) bool { return op == validation.OpUpdate }

func (v *VoucherTagUnique) Validate(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary]) (validation.ErrorMap[*domain.ProjectBeneficiary], error) {
	errs := make(validation.ErrorMap[*domain.ProjectBeneficiary])

	byTenant := make(map[string][]*domain.ProjectBeneficiary)
	seen := make(map[string]string)
	for _, b := range req.Entities {
		tag := b.TagValue()
		if tag == "" {
			continue
		}
		key := b.TenantID + "/" + tag
		if owner, dup := seen[key]; dup && owner != b.ID {
			errs.Add(b, tagError())
			continue
		}
		seen[key] = b.ID
		byTenant[b.TenantID] = append(byTenant[b.TenantID], b)
	}

	for tenantID, items := range byTenant {
		tags := make([]string, 0, len(items))
		for _, b := range items {
			tags = append(tags, b.TagValue())
		}
		holders, err := v.repo.FindByTags(ctx, tenantID, tags)
		if err != nil {
			return nil, fmt.Errorf("find by tags: %w", err)
		}
		heldBy := make(map[string]string, len(holders))
		for _, h := range holders {
			heldBy[h.TagValue()] = h.ID
		}
		for _, b := range items {
			if holder, ok := heldBy[b.TagValue()]; ok && holder != b.ID {
				errs.Add(b, tagError())
			}
		}
	}
	return errs, nil
}

func tagError() domain.Error {
	const msg = "Project Beneficiary Tag Validation Failed"
	return domain.NewError(domain.CodeInvalidTag, msg, domain.NonRecoverable, domain.NewCustomError(domain.CodeInvalidTag, msg))
}
