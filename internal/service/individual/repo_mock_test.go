package individual

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ individualRepo = &individualRepoMock{}

type individualRepoMock struct {
	FindByIDsFunc func(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.Individual, error)
	SearchFunc    func(ctx context.Context, s domain.IndividualSearch) ([]*domain.Individual, error)

	calls struct {
		FindByIDs []struct {
			Ctx            context.Context
			TenantID       string
			Ids            []string
			IncludeDeleted bool
		}
		Search []struct {
			Ctx context.Context
			S   domain.IndividualSearch
		}
	}
	lockFindByIDs sync.RWMutex
	lockSearch    sync.RWMutex
}

func (mock *individualRepoMock) FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.Individual, error) {
	if mock.FindByIDsFunc == nil {
		panic("individualRepoMock.FindByIDsFunc: method is nil but individualRepo.FindByIDs was just called")
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

func (mock *individualRepoMock) FindByIDsCalls() []struct {
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

func (mock *individualRepoMock) Search(ctx context.Context, s domain.IndividualSearch) ([]*domain.Individual, error) {
	if mock.SearchFunc == nil {
		panic("individualRepoMock.SearchFunc: method is nil but individualRepo.Search was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.IndividualSearch
	}{Ctx: ctx, S: s}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, s)
}

func (mock *individualRepoMock) SearchCalls() []struct {
	Ctx context.Context
	S   domain.IndividualSearch
} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}
