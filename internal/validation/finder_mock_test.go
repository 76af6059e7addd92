package validation

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ Finder[*domain.IDRecord] = &finderMock{}

type finderMock struct {
	FindByIDsFunc func(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.IDRecord, error)

	calls struct {
		FindByIDs []struct {
			Ctx            context.Context
			TenantID       string
			Ids            []string
			IncludeDeleted bool
		}
	}
	lockFindByIDs sync.RWMutex
}

func (mock *finderMock) FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.IDRecord, error) {
	if mock.FindByIDsFunc == nil {
		panic("finderMock.FindByIDsFunc: method is nil but Finder.FindByIDs was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		TenantID       string
		Ids            []string
		IncludeDeleted bool
	}{Ctx: ctx, TenantID: tenantID, Ids: ids, IncludeDeleted: includeDeleted}
	mock.lockFindByIDs.Lock()
	mock.calls.FindByIDs = append(mock.calls.FindByIDs, callInfo)
	mock.lockFindByIDs.Unlock()
	return mock.FindByIDsFunc(ctx, tenantID, ids, includeDeleted)
}

func (mock *finderMock) FindByIDsCalls() []struct {
	Ctx            context.Context
	TenantID       string
	Ids            []string
	IncludeDeleted bool
} {
	mock.lockFindByIDs.RLock()
	calls := mock.calls.FindByIDs
	mock.lockFindByIDs.RUnlock()
	return calls
}

var _ ErrorReporter = &errorReporterMock{}

type errorReporterMock struct {
	ReportFunc func(ctx context.Context, details *domain.ErrorDetails) error

	calls struct {
		Report []struct {
			Ctx     context.Context
			Details *domain.ErrorDetails
		}
	}
	lockReport sync.RWMutex
}

func (mock *errorReporterMock) Report(ctx context.Context, details *domain.ErrorDetails) error {
	if mock.ReportFunc == nil {
		panic("errorReporterMock.ReportFunc: method is nil but ErrorReporter.Report was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Details *domain.ErrorDetails
	}{Ctx: ctx, Details: details}
	mock.lockReport.Lock()
	mock.calls.Report = append(mock.calls.Report, callInfo)
	mock.lockReport.Unlock()
	return mock.ReportFunc(ctx, details)
}

func (mock *errorReporterMock) ReportCalls() []struct {
	Ctx     context.Context
	Details *domain.ErrorDetails
} {
	mock.lockReport.RLock()
	calls := mock.calls.Report
	mock.lockReport.RUnlock()
	return calls
}
