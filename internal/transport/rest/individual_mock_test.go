package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ individualService = &individualServiceMock{}

type individualServiceMock struct {
	CreateFunc func(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	UpdateFunc func(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	DeleteFunc func(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error)
	SearchFunc func(ctx context.Context, search domain.IndividualSearch) ([]*domain.Individual, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.Individual]
			IsBulk bool
		}
		Update []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.Individual]
			IsBulk bool
		}
		Delete []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.Individual]
			IsBulk bool
		}
		Search []struct {
			Ctx    context.Context
			Search domain.IndividualSearch
		}
	}
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
	lockSearch sync.RWMutex
}

func (mock *individualServiceMock) Create(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	if mock.CreateFunc == nil {
		panic("individualServiceMock.CreateFunc: method is nil but individualService.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.Individual]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, req, isBulk)
}

func (mock *individualServiceMock) CreateCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.Individual]
	IsBulk bool
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *individualServiceMock) Update(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	if mock.UpdateFunc == nil {
		panic("individualServiceMock.UpdateFunc: method is nil but individualService.Update was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.Individual]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, req, isBulk)
}

func (mock *individualServiceMock) UpdateCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.Individual]
	IsBulk bool
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *individualServiceMock) Delete(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	if mock.DeleteFunc == nil {
		panic("individualServiceMock.DeleteFunc: method is nil but individualService.Delete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.Individual]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, req, isBulk)
}

func (mock *individualServiceMock) DeleteCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.Individual]
	IsBulk bool
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *individualServiceMock) Search(ctx context.Context, search domain.IndividualSearch) ([]*domain.Individual, error) {
	if mock.SearchFunc == nil {
		panic("individualServiceMock.SearchFunc: method is nil but individualService.Search was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Search domain.IndividualSearch
	}{Ctx: ctx, Search: search}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, search)
}

func (mock *individualServiceMock) SearchCalls() []struct {
	Ctx    context.Context
	Search domain.IndividualSearch
} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}
