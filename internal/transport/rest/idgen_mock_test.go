package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ idGenerator = &idGeneratorMock{}

type idGeneratorMock struct {
	GenerateIDsFunc    func(ctx context.Context, info domain.RequestInfo, reqs []domain.IDRequest) ([]string, error)
	GenerateIDPoolFunc func(ctx context.Context, info domain.RequestInfo, batches []domain.BatchRequest) ([]domain.PoolCreationResult, error)

	calls struct {
		GenerateIDs []struct {
			Ctx  context.Context
			Info domain.RequestInfo
			Reqs []domain.IDRequest
		}
		GenerateIDPool []struct {
			Ctx     context.Context
			Info    domain.RequestInfo
			Batches []domain.BatchRequest
		}
	}
	lockGenerateIDs    sync.RWMutex
	lockGenerateIDPool sync.RWMutex
}

func (mock *idGeneratorMock) GenerateIDs(ctx context.Context, info domain.RequestInfo, reqs []domain.IDRequest) ([]string, error) {
	if mock.GenerateIDsFunc == nil {
		panic("idGeneratorMock.GenerateIDsFunc: method is nil but idGenerator.GenerateIDs was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Info domain.RequestInfo
		Reqs []domain.IDRequest
	}{Ctx: ctx, Info: info, Reqs: reqs}
	mock.lockGenerateIDs.Lock()
	mock.calls.GenerateIDs = append(mock.calls.GenerateIDs, callInfo)
	mock.lockGenerateIDs.Unlock()
	return mock.GenerateIDsFunc(ctx, info, reqs)
}

func (mock *idGeneratorMock) GenerateIDsCalls() []struct {
	Ctx  context.Context
	Info domain.RequestInfo
	Reqs []domain.IDRequest
} {
	mock.lockGenerateIDs.RLock()
	calls := mock.calls.GenerateIDs
	mock.lockGenerateIDs.RUnlock()
	return calls
}

func (mock *idGeneratorMock) GenerateIDPool(ctx context.Context, info domain.RequestInfo, batches []domain.BatchRequest) ([]domain.PoolCreationResult, error) {
	if mock.GenerateIDPoolFunc == nil {
		panic("idGeneratorMock.GenerateIDPoolFunc: method is nil but idGenerator.GenerateIDPool was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Info    domain.RequestInfo
		Batches []domain.BatchRequest
	}{Ctx: ctx, Info: info, Batches: batches}
	mock.lockGenerateIDPool.Lock()
	mock.calls.GenerateIDPool = append(mock.calls.GenerateIDPool, callInfo)
	mock.lockGenerateIDPool.Unlock()
	return mock.GenerateIDPoolFunc(ctx, info, batches)
}

func (mock *idGeneratorMock) GenerateIDPoolCalls() []struct {
	Ctx     context.Context
	Info    domain.RequestInfo
	Batches []domain.BatchRequest
} {
	mock.lockGenerateIDPool.RLock()
	calls := mock.calls.GenerateIDPool
	mock.lockGenerateIDPool.RUnlock()
	return calls
}
