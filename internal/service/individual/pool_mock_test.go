package individual

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ idPool = &idPoolMock{}

type idPoolMock struct {
	FindByIDsAndStatusFunc func(ctx context.Context, ids []string, status string, tenantID string) ([]*domain.IDRecord, error)

	calls struct {
		FindByIDsAndStatus []struct {
			Ctx      context.Context
			Ids      []string
			Status   string
			TenantID string
		}
	}
	lockFindByIDsAndStatus sync.RWMutex
}

func (mock *idPoolMock) FindByIDsAndStatus(ctx context.Context, ids []string, status string, tenantID string) ([]*domain.IDRecord, error) {
	if mock.FindByIDsAndStatusFunc == nil {
		panic("idPoolMock.FindByIDsAndStatusFunc: method is nil but idPool.FindByIDsAndStatus was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Ids      []string
		Status   string
		TenantID string
	}{Ctx: ctx, Ids: ids, Status: status, TenantID: tenantID}
	mock.lockFindByIDsAndStatus.Lock()
	mock.calls.FindByIDsAndStatus = append(mock.calls.FindByIDsAndStatus, callInfo)
	mock.lockFindByIDsAndStatus.Unlock()
	return mock.FindByIDsAndStatusFunc(ctx, ids, status, tenantID)
}

func (mock *idPoolMock) FindByIDsAndStatusCalls() []struct {
	Ctx      context.Context
	Ids      []string
	Status   string
	TenantID string
} {
	mock.lockFindByIDsAndStatus.RLock()
	calls := mock.calls.FindByIDsAndStatus
	mock.lockFindByIDsAndStatus.RUnlock()
	return calls
}
