package enrichment

import (
	"context"
	"sync"
)

var _ IDListSupplier = &idListSupplierMock{}

type idListSupplierMock struct {
	IDsFunc func(ctx context.Context, tenantID string, count int) ([]string, error)

	calls struct {
		IDs []struct {
			Ctx      context.Context
			TenantID string
			Count    int
		}
	}
	lockIDs sync.RWMutex
}

func (mock *idListSupplierMock) IDs(ctx context.Context, tenantID string, count int) ([]string, error) {
	if mock.IDsFunc == nil {
		panic("idListSupplierMock.IDsFunc: method is nil but IDListSupplier.IDs was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		Count    int
	}{Ctx: ctx, TenantID: tenantID, Count: count}
	mock.lockIDs.Lock()
	mock.calls.IDs = append(mock.calls.IDs, callInfo)
	mock.lockIDs.Unlock()
	return mock.IDsFunc(ctx, tenantID, count)
}

func (mock *idListSupplierMock) IDsCalls() []struct {
	Ctx      context.Context
	TenantID string
	Count    int
} {
	mock.lockIDs.RLock()
	calls := mock.calls.IDs
	mock.lockIDs.RUnlock()
	return calls
}
