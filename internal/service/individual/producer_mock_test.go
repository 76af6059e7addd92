package individual

import (
	"context"
	"sync"
)

var _ producer = &producerMock{}

type producerMock struct {
	PushFunc func(ctx context.Context, topic string, payload any) error

	calls struct {
		Push []struct {
			Ctx     context.Context
			Topic   string
			Payload any
		}
	}
	lockPush sync.RWMutex
}

func (mock *producerMock) Push(ctx context.Context, topic string, payload any) error {
	if mock.PushFunc == nil {
		panic("producerMock.PushFunc: method is nil but producer.Push was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Topic   string
		Payload any
	}{Ctx: ctx, Topic: topic, Payload: payload}
	mock.lockPush.Lock()
	mock.calls.Push = append(mock.calls.Push, callInfo)
	mock.lockPush.Unlock()
	return mock.PushFunc(ctx, topic, payload)
}

func (mock *producerMock) PushCalls() []struct {
	Ctx     context.Context
	Topic   string
	Payload any
} {
	mock.lockPush.RLock()
	calls := mock.calls.Push
	mock.lockPush.RUnlock()
	return calls
}
