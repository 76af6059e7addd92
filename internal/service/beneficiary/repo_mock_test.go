package beneficiary

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ beneficiaryRepo = &beneficiaryRepoMock{}

type beneficiaryRepoMock struct {
	FindByIDsFunc  func(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.ProjectBeneficiary, error)
	FindByTagsFunc func(ctx context.Context, tenantID string, tags []string) ([]*domain.ProjectBeneficiary, error)

	calls struct {
		FindByIDs []struct {
			Ctx            context.Context
			TenantID       string
			Ids            []string
			IncludeDeleted bool
		}
		FindByTags []struct {
			Ctx      context.Context
			TenantID string
			Tags     []string
		}
	}
	lockFindByIDs  sync.RWMutex
	lockFindByTags sync.RWMutex
}

func (mock *beneficiaryRepoMock) FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.ProjectBeneficiary, error) {
	if mock.FindByIDsFunc == nil {
		panic("beneficiaryRepoMock.FindByIDsFunc: method is nil but beneficiaryRepo.FindByIDs was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		TenantID       string
		Ids            []string
		IncludeDeleted bool
	}{Ctx: ctx, TenantID: tenantID, Ids: ids, IncludeDeleted: includeDeleted}
	mock.lockFindByIDs.Lock()
	mock.calls.FindByIDs = append(mock.calls.FindByIDs, callInfo)
	mock.lockFindByIDs.Unlock()
	return mock.FindByIDsFunc(ctx, tenantID, ids, includeDeleted)
}

func (mock *beneficiaryRepoMock) FindByIDsCalls() []struct {
	Ctx            context.Context
	TenantID       string
	Ids            []string
	IncludeDeleted bool
} {
	mock.lockFindByIDs.RLock()
	calls := mock.calls.FindByIDs
	mock.lockFindByIDs.RUnlock()
	return calls
}

func (mock *beneficiaryRepoMock) FindByTags(ctx context.Context, tenantID string, tags []string) ([]*domain.ProjectBeneficiary, error) {
	if mock.FindByTagsFunc == nil {
		panic("beneficiaryRepoMock.FindByTagsFunc: method is nil but beneficiaryRepo.FindByTags was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Tags     []string
	}{Ctx: ctx, TenantID: tenantID, Tags: tags}
	mock.lockFindByTags.Lock()
	mock.calls.FindByTags = append(mock.calls.FindByTags, callInfo)
	mock.lockFindByTags.Unlock()
	return mock.FindByTagsFunc(ctx, tenantID, tags)
}

func (mock *beneficiaryRepoMock) FindByTagsCalls() []struct {
	Ctx      context.Context
	TenantID string
	Tags     []string
} {
	mock.lockFindByTags.RLock()
	calls := mock.calls.FindByTags
	mock.lockFindByTags.RUnlock()
	return calls
}
