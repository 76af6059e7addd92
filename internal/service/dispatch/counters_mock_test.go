package dispatch

import (
	"context"
	"sync"

	"github.com/heartmarshall/health-registry/internal/domain"
)

var _ counters = &countersMock{}

type countersMock struct {
	GetRemainingFunc func(ctx context.Context, key domain.CounterKey, count int64, validate bool, allowToday bool) (int64, error)
	UpdateCountFunc  func(ctx context.Context, key domain.CounterKey, delta int64, increment bool, isToday bool) (int64, error)

	calls struct {
		GetRemaining []struct {
			Ctx        context.Context
			Key        domain.CounterKey
			Count      int64
			Validate   bool
			AllowToday bool
		}
		UpdateCount []struct {
			Ctx       context.Context
			Key       domain.CounterKey
			Delta     int64
			Increment bool
			IsToday   bool
		}
	}
	lockGetRemaining sync.RWMutex
	lockUpdateCount  sync.RWMutex
}

func (mock *countersMock) GetRemaining(ctx context.Context, key domain.CounterKey, count int64, validate bool, allowToday bool) (int64, error) {
	if mock.GetRemainingFunc == nil {
		panic("countersMock.GetRemainingFunc: method is nil but counters.GetRemaining was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Key        domain.CounterKey
		Count      int64
		Validate   bool
		AllowToday bool
	}{Ctx: ctx, Key: key, Count: count, Validate: validate, AllowToday: allowToday}
	mock.lockGetRemaining.Lock()
	mock.calls.GetRemaining = append(mock.calls.GetRemaining, callInfo)
	mock.lockGetRemaining.Unlock()
	return mock.GetRemainingFunc(ctx, key, count, validate, allowToday)
}

func (mock *countersMock) GetRemainingCalls() []struct {
	Ctx        context.Context
	Key        domain.CounterKey
	Count      int64
	Validate   bool
	AllowToday bool
} {
	mock.lockGetRemaining.RLock()
	calls := mock.calls.GetRemaining
	mock.lockGetRemaining.RUnlock()
	return calls
}

func (mock *countersMock) UpdateCount(ctx context.Context, key domain.CounterKey, delta int64, increment bool, isToday bool) (int64, error) {
	if mock.UpdateCountFunc == nil {
		panic("countersMock.UpdateCountFunc: method is nil but counters.UpdateCount was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Key       domain.CounterKey
		Delta     int64
		Increment bool
		IsToday   bool
	}{Ctx: ctx, Key: key, Delta: delta, Increment: increment, IsToday: isToday}
	mock.lockUpdateCount.Lock()
	mock.calls.UpdateCount = append(mock.calls.UpdateCount, callInfo)
	mock.lockUpdateCount.Unlock()
	return mock.UpdateCountFunc(ctx, key, delta, increment, isToday)
}

func (mock *countersMock) UpdateCountCalls() []struct {
	Ctx       context.Context
	Key       domain.CounterKey
	Delta     int64
	Increment bool
	IsToday   bool
} {
	mock.lockUpdateCount.RLock()
	calls := mock.calls.UpdateCount
	mock.lockUpdateCount.RUnlock()
	return calls
}
