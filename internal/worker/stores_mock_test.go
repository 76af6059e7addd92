package worker

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ idPoolStore = &idPoolStoreMock{}

type idPoolStoreMock struct {
	InsertRecordsFunc         func(ctx context.Context, records []*domain.IDRecord) (int64, error)
	UpdateStatusesFunc        func(ctx context.Context, records []*domain.IDRecord) (int64, error)
	InsertTransactionLogsFunc func(ctx context.Context, logs []domain.IDTransactionLog) error

	calls struct {
		InsertRecords []struct {
			Ctx     context.Context
			Records []*domain.IDRecord
		}
		UpdateStatuses []struct {
			Ctx     context.Context
			Records []*domain.IDRecord
		}
		InsertTransactionLogs []struct {
			Ctx  context.Context
			Logs []domain.IDTransactionLog
		}
	}
	lockInsertRecords         sync.RWMutex
	lockUpdateStatuses        sync.RWMutex
	lockInsertTransactionLogs sync.RWMutex
}

func (mock *idPoolStoreMock) InsertRecords(ctx context.Context, records []*domain.IDRecord) (int64, error) {
	if mock.InsertRecordsFunc == nil {
		panic("idPoolStoreMock.InsertRecordsFunc: method is nil but idPoolStore.InsertRecords was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Records []*domain.IDRecord
	}{Ctx: ctx, Records: records}
	mock.lockInsertRecords.Lock()
	mock.calls.InsertRecords = append(mock.calls.InsertRecords, callInfo)
	mock.lockInsertRecords.Unlock()
	return mock.InsertRecordsFunc(ctx, records)
}

func (mock *idPoolStoreMock) InsertRecordsCalls() []struct {
	Ctx     context.Context
	Records []*domain.IDRecord
} {
	mock.lockInsertRecords.RLock()
	calls := mock.calls.InsertRecords
	mock.lockInsertRecords.RUnlock()
	return calls
}

func (mock *idPoolStoreMock) UpdateStatuses(ctx context.Context, records []*domain.IDRecord) (int64, error) {
	if mock.UpdateStatusesFunc == nil {
		panic("idPoolStoreMock.UpdateStatusesFunc: method is nil but idPoolStore.UpdateStatuses was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Records []*domain.IDRecord
	}{Ctx: ctx, Records: records}
	mock.lockUpdateStatuses.Lock()
	mock.calls.UpdateStatuses = append(mock.calls.UpdateStatuses, callInfo)
	mock.lockUpdateStatuses.Unlock()
	return mock.UpdateStatusesFunc(ctx, records)
}

func (mock *idPoolStoreMock) UpdateStatusesCalls() []struct {
	Ctx     context.Context
	Records []*domain.IDRecord
} {
	mock.lockUpdateStatuses.RLock()
	calls := mock.calls.UpdateStatuses
	mock.lockUpdateStatuses.RUnlock()
	return calls
}

func (mock *idPoolStoreMock) InsertTransactionLogs(ctx context.Context, logs []domain.IDTransactionLog) error {
	if mock.InsertTransactionLogsFunc == nil {
		panic("idPoolStoreMock.InsertTransactionLogsFunc: method is nil but idPoolStore.InsertTransactionLogs was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Logs []domain.IDTransactionLog
	}{Ctx: ctx, Logs: logs}
	mock.lockInsertTransactionLogs.Lock()
	mock.calls.InsertTransactionLogs = append(mock.calls.InsertTransactionLogs, callInfo)
	mock.lockInsertTransactionLogs.Unlock()
	return mock.InsertTransactionLogsFunc(ctx, logs)
}

func (mock *idPoolStoreMock) InsertTransactionLogsCalls() []struct {
	Ctx  context.Context
	Logs []domain.IDTransactionLog
} {
	mock.lockInsertTransactionLogs.RLock()
	calls := mock.calls.InsertTransactionLogs
	mock.lockInsertTransactionLogs.RUnlock()
	return calls
}
