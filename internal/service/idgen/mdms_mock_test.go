package idgen

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ masterData = &masterDataMock{}

type masterDataMock struct {
	IDFormatFunc func(ctx context.Context, info domain.RequestInfo, idName string, tenantID string) (string, error)
	CityFunc     func(ctx context.Context, info domain.RequestInfo, tenantID string) (string, error)

	calls struct {
		IDFormat []struct {
			Ctx      context.Context
			Info     domain.RequestInfo
			IDName   string
			TenantID string
		}
		City []struct {
			Ctx      context.Context
			Info     domain.RequestInfo
			TenantID string
		}
	}
	lockIDFormat sync.RWMutex
	lockCity     sync.RWMutex
}

func (mock *masterDataMock) IDFormat(ctx context.Context, info domain.RequestInfo, idName string, tenantID string) (string, error) {
	if mock.IDFormatFunc == nil {
		panic("masterDataMock.IDFormatFunc: method is nil but masterData.IDFormat was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Info     domain.RequestInfo
		IDName   string
		TenantID string
	}{Ctx: ctx, Info: info, IDName: idName, TenantID: tenantID}
	mock.lockIDFormat.Lock()
	mock.calls.IDFormat = append(mock.calls.IDFormat, callInfo)
	mock.lockIDFormat.Unlock()
	return mock.IDFormatFunc(ctx, info, idName, tenantID)
}

func (mock *masterDataMock) IDFormatCalls() []struct {
	Ctx      context.Context
	Info     domain.RequestInfo
	IDName   string
	TenantID string
} {
	mock.lockIDFormat.RLock()
	calls := mock.calls.IDFormat
	mock.lockIDFormat.RUnlock()
	return calls
}

func (mock *masterDataMock) City(ctx context.Context, info domain.RequestInfo, tenantID string) (string, error) {
	if mock.CityFunc == nil {
		panic("masterDataMock.CityFunc: method is nil but masterData.City was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Info     domain.RequestInfo
		TenantID string
	}{Ctx: ctx, Info: info, TenantID: tenantID}
	mock.lockCity.Lock()
	mock.calls.City = append(mock.calls.City, callInfo)
	mock.lockCity.Unlock()
	return mock.CityFunc(ctx, info, tenantID)
}

func (mock *masterDataMock) CityCalls() []struct {
	Ctx      context.Context
	Info     domain.RequestInfo
	TenantID string
} {
	mock.lockCity.RLock()
	calls := mock.calls.City
	mock.lockCity.RUnlock()
	return calls
}
