package worker

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ poolGenerator = &poolGeneratorMock{}

type poolGeneratorMock struct {
	HandleAsyncPoolRequestFunc func(ctx context.Context, req domain.AsyncPoolRequest) error

	calls struct {
		HandleAsyncPoolRequest []struct {
			Ctx context.Context
			Req domain.AsyncPoolRequest
		}
	}
	lockHandleAsyncPoolRequest sync.RWMutex
}

func (mock *poolGeneratorMock) HandleAsyncPoolRequest(ctx context.Context, req domain.AsyncPoolRequest) error {
	if mock.HandleAsyncPoolRequestFunc == nil {
		panic("poolGeneratorMock.HandleAsyncPoolRequestFunc: method is nil but poolGenerator.HandleAsyncPoolRequest was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Req domain.AsyncPoolRequest
	}{Ctx: ctx, Req: req}
	mock.lockHandleAsyncPoolRequest.Lock()
	mock.calls.HandleAsyncPoolRequest = append(mock.calls.HandleAsyncPoolRequest, callInfo)
	mock.lockHandleAsyncPoolRequest.Unlock()
	return mock.HandleAsyncPoolRequestFunc(ctx, req)
}

func (mock *poolGeneratorMock) HandleAsyncPoolRequestCalls() []struct {
	Ctx context.Context
	Req domain.AsyncPoolRequest
} {
	mock.lockHandleAsyncPoolRequest.RLock()
	calls := mock.calls.HandleAsyncPoolRequest
	mock.lockHandleAsyncPoolRequest.RUnlock()
	return calls
}
