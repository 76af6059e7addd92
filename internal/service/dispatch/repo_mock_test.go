package dispatch

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ idRepo = &idRepoMock{}

type idRepoMock struct {
	FetchUnassignedFunc       func(ctx context.Context, tenantID string, userUUID string, count int) ([]*domain.IDRecord, error)
	FindByIDsAndStatusFunc    func(ctx context.Context, ids []string, status string, tenantID string) ([]*domain.IDRecord, error)
	SelectTransactionLogsFunc func(ctx context.Context, q domain.TransactionLogQuery) ([]domain.IDTransactionLog, int64, error)

	calls struct {
		FetchUnassigned []struct {
			Ctx      context.Context
			TenantID string
			UserUUID string
			Count    int
		}
		FindByIDsAndStatus []struct {
			Ctx      context.Context
			Ids      []string
			Status   string
			TenantID string
		}
		SelectTransactionLogs []struct {
			Ctx context.Context
			Q   domain.TransactionLogQuery
		}
	}
	lockFetchUnassigned       sync.RWMutex
	lockFindByIDsAndStatus    sync.RWMutex
	lockSelectTransactionLogs sync.RWMutex
}

func (mock *idRepoMock) FetchUnassigned(ctx context.Context, tenantID string, userUUID string, count int) ([]*domain.IDRecord, error) {
	if mock.FetchUnassignedFunc == nil {
		panic("idRepoMock.FetchUnassignedFunc: method is nil but idRepo.FetchUnassigned was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TenantID string
		UserUUID string
		Count    int
	}{Ctx: ctx, TenantID: tenantID, UserUUID: userUUID, Count: count}
	mock.lockFetchUnassigned.Lock()
	mock.calls.FetchUnassigned = append(mock.calls.FetchUnassigned, callInfo)
	mock.lockFetchUnassigned.Unlock()
	return mock.FetchUnassignedFunc(ctx, tenantID, userUUID, count)
}

func (mock *idRepoMock) FetchUnassignedCalls() []struct {
	Ctx      context.Context
	TenantID string
	UserUUID string
	Count    int
} {
	mock.lockFetchUnassigned.RLock()
	calls := mock.calls.FetchUnassigned
	mock.lockFetchUnassigned.RUnlock()
	return calls
}

func (mock *idRepoMock) FindByIDsAndStatus(ctx context.Context, ids []string, status string, tenantID string) ([]*domain.IDRecord, error) {
	if mock.FindByIDsAndStatusFunc == nil {
		panic("idRepoMock.FindByIDsAndStatusFunc: method is nil but idRepo.FindByIDsAndStatus was just called")
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

func (mock *idRepoMock) FindByIDsAndStatusCalls() []struct {
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

func (mock *idRepoMock) SelectTransactionLogs(ctx context.Context, q domain.TransactionLogQuery) ([]domain.IDTransactionLog, int64, error) {
	if mock.SelectTransactionLogsFunc == nil {
		panic("idRepoMock.SelectTransactionLogsFunc: method is nil but idRepo.SelectTransactionLogs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Q   domain.TransactionLogQuery
	}{Ctx: ctx, Q: q}
	mock.lockSelectTransactionLogs.Lock()
	mock.calls.SelectTransactionLogs = append(mock.calls.SelectTransactionLogs, callInfo)
	mock.lockSelectTransactionLogs.Unlock()
	return mock.SelectTransactionLogsFunc(ctx, q)
}

func (mock *idRepoMock) SelectTransactionLogsCalls() []struct {
	Ctx context.Context
	Q   domain.TransactionLogQuery
} {
	mock.lockSelectTransactionLogs.RLock()
	calls := mock.calls.SelectTransactionLogs
	mock.lockSelectTransactionLogs.RUnlock()
	return calls
}
