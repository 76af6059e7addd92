package idgen

import (
	"context"
	"sync"
)

var _ sequenceRepo = &sequenceRepoMock{}

type sequenceRepoMock struct {
	NextValuesFunc func(ctx context.Context, name string, n int) ([]int64, error)
	CreateFunc     func(ctx context.Context, name string) error
	IDFormatFunc   func(ctx context.Context, idName string, tenantID string) (string, error)

	calls struct {
		NextValues []struct {
			Ctx  context.Context
			Name string
			N    int
		}
		Create []struct {
			Ctx  context.Context
			Name string
		}
		IDFormat []struct {
			Ctx      context.Context
			IDName   string
			TenantID string
		}
	}
	lockNextValues sync.RWMutex
	lockCreate     sync.RWMutex
	lockIDFormat   sync.RWMutex
}

func (mock *sequenceRepoMock) NextValues(ctx context.Context, name string, n int) ([]int64, error) {
	if mock.NextValuesFunc == nil {
		panic("sequenceRepoMock.NextValuesFunc: method is nil but sequenceRepo.NextValues was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
		N    int
	}{Ctx: ctx, Name: name, N: n}
	mock.lockNextValues.Lock()
	mock.calls.NextValues = append(mock.calls.NextValues, callInfo)
	mock.lockNextValues.Unlock()
	return mock.NextValuesFunc(ctx, name, n)
}

func (mock *sequenceRepoMock) NextValuesCalls() []struct {
	Ctx  context.Context
	Name string
	N    int
} {
	mock.lockNextValues.RLock()
	calls := mock.calls.NextValues
	mock.lockNextValues.RUnlock()
	return calls
}

func (mock *sequenceRepoMock) Create(ctx context.Context, name string) error {
	if mock.CreateFunc == nil {
		panic("sequenceRepoMock.CreateFunc: method is nil but sequenceRepo.Create was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
	}{Ctx: ctx, Name: name}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, name)
}

func (mock *sequenceRepoMock) CreateCalls() []struct {
	Ctx  context.Context
	Name string
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *sequenceRepoMock) IDFormat(ctx context.Context, idName string, tenantID string) (string, error) {
	if mock.IDFormatFunc == nil {
		panic("sequenceRepoMock.IDFormatFunc: method is nil but sequenceRepo.IDFormat was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		IDName   string
		TenantID string
	}{Ctx: ctx, IDName: idName, TenantID: tenantID}
	mock.lockIDFormat.Lock()
	mock.calls.IDFormat = append(mock.calls.IDFormat, callInfo)
	mock.lockIDFormat.Unlock()
	return mock.IDFormatFunc(ctx, idName, tenantID)
}

func (mock *sequenceRepoMock) IDFormatCalls() []struct {
	Ctx      context.Context
	IDName   string
	TenantID string
} {
	mock.lockIDFormat.RLock()
	calls := mock.calls.IDFormat
	mock.lockIDFormat.RUnlock()
	return calls
}
