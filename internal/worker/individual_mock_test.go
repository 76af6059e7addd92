package worker

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ individualStore = &individualStoreMock{}

type individualStoreMock struct {
	UpsertFunc func(ctx context.Context, individuals []*domain.Individual) error

	calls struct {
		Upsert []struct {
			Ctx         context.Context
			Individuals []*domain.Individual
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *individualStoreMock) Upsert(ctx context.Context, individuals []*domain.Individual) error {
	if mock.UpsertFunc == nil {
		panic("individualStoreMock.UpsertFunc: method is nil but individualStore.Upsert was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Individuals []*domain.Individual
	}{Ctx: ctx, Individuals: individuals}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, individuals)
}

func (mock *individualStoreMock) UpsertCalls() []struct {
	Ctx         context.Context
	Individuals []*domain.Individual
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
