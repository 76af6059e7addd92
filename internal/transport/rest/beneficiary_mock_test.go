package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ beneficiaryService = &beneficiaryServiceMock{}

type beneficiaryServiceMock struct {
	CreateFunc func(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)
	UpdateFunc func(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)
	DeleteFunc func(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.ProjectBeneficiary]
			IsBulk bool
		}
		Update []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.ProjectBeneficiary]
			IsBulk bool
		}
		Delete []struct {
			Ctx    context.Context
			Req    domain.BulkRequest[*domain.ProjectBeneficiary]
			IsBulk bool
		}
	}
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *beneficiaryServiceMock) Create(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	if mock.CreateFunc == nil {
		panic("beneficiaryServiceMock.CreateFunc: method is nil but beneficiaryService.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.ProjectBeneficiary]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, req, isBulk)
}

func (mock *beneficiaryServiceMock) CreateCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.ProjectBeneficiary]
	IsBulk bool
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *beneficiaryServiceMock) Update(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	if mock.UpdateFunc == nil {
		panic("beneficiaryServiceMock.UpdateFunc: method is nil but beneficiaryService.Update was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.ProjectBeneficiary]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, req, isBulk)
}

func (mock *beneficiaryServiceMock) UpdateCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.ProjectBeneficiary]
	IsBulk bool
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *beneficiaryServiceMock) Delete(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	if mock.DeleteFunc == nil {
		panic("beneficiaryServiceMock.DeleteFunc: method is nil but beneficiaryService.Delete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Req    domain.BulkRequest[*domain.ProjectBeneficiary]
		IsBulk bool
	}{Ctx: ctx, Req: req, IsBulk: isBulk}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, req, isBulk)
}

func (mock *beneficiaryServiceMock) DeleteCalls() []struct {
	Ctx    context.Context
	Req    domain.BulkRequest[*domain.ProjectBeneficiary]
	IsBulk bool
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
