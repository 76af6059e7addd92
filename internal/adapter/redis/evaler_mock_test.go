package redis

import (
	"context"
	"sync"
)

var _ Evaler = &evalerMock{}

type evalerMock struct {
	EvalFunc func(ctx context.Context, script string, keys []string, args ...any) (any, error)

	calls struct {
		Eval []struct {
			Ctx    context.Context
			Script string
			Keys   []string
			Args   []any
		}
	}
	lockEval sync.RWMutex
}

func (mock *evalerMock) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	if mock.EvalFunc == nil {
		panic("evalerMock.EvalFunc: method is nil but Evaler.Eval was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Script string
		Keys   []string
		Args   []any
	}{Ctx: ctx, Script: script, Keys: keys, Args: args}
	mock.lockEval.Lock()
	mock.calls.Eval = append(mock.calls.Eval, callInfo)
	mock.lockEval.Unlock()
	return mock.EvalFunc(ctx, script, keys, args...)
}

func (mock *evalerMock) EvalCalls() []struct {
	Ctx    context.Context
	Script string
	Keys   []string
	Args   []any
} {
	mock.lockEval.RLock()
	calls := mock.calls.Eval
	mock.lockEval.RUnlock()
	return calls
}
