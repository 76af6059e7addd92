package worker

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ beneficiaryStore = &beneficiaryStoreMock{}

type beneficiaryStoreMock struct {
	UpsertFunc func(ctx context.Context, items []*domain.ProjectBeneficiary) error

	calls struct {
		Upsert []struct {
			Ctx   context.Context
			Items []*domain.ProjectBeneficiary
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *beneficiaryStoreMock) Upsert(ctx context.Context, items []*domain.ProjectBeneficiary) error {
	if mock.UpsertFunc == nil {
		panic("beneficiaryStoreMock.UpsertFunc: method is nil but beneficiaryStore.Upsert was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Items []*domain.ProjectBeneficiary
	}{Ctx: ctx, Items: items}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, items)
}

func (mock *beneficiaryStoreMock) UpsertCalls() []struct {
	Ctx   context.Context
	Items []*domain.ProjectBeneficiary
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
