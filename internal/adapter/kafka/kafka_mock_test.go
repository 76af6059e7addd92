package kafka

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
)

var _ messageWriter = &messageWriterMock{}

type messageWriterMock struct {
	WriteMessagesFunc func(ctx context.Context, msgs ...kafkago.Message) error
	CloseFunc         func() error

	calls struct {
		WriteMessages []struct {
			Ctx  context.Context
			Msgs []kafkago.Message
		}
		Close []struct{}
	}
	lockWriteMessages sync.RWMutex
	lockClose         sync.RWMutex
}

func (mock *messageWriterMock) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if mock.WriteMessagesFunc == nil {
		panic("messageWriterMock.WriteMessagesFunc: method is nil but messageWriter.WriteMessages was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Msgs []kafkago.Message
	}{Ctx: ctx, Msgs: msgs}
	mock.lockWriteMessages.Lock()
	mock.calls.WriteMessages = append(mock.calls.WriteMessages, callInfo)
	mock.lockWriteMessages.Unlock()
	return mock.WriteMessagesFunc(ctx, msgs...)
}

func (mock *messageWriterMock) WriteMessagesCalls() []struct {
	Ctx  context.Context
	Msgs []kafkago.Message
} {
	mock.lockWriteMessages.RLock()
	calls := mock.calls.WriteMessages
	mock.lockWriteMessages.RUnlock()
	return calls
}

func (mock *messageWriterMock) Close() error {
	if mock.CloseFunc == nil {
		panic("messageWriterMock.CloseFunc: method is nil but messageWriter.Close was just called")
	}
	mock.lockClose.Lock()
	mock.calls.Close = append(mock.calls.Close, struct{}{})
	mock.lockClose.Unlock()
	return mock.CloseFunc()
}

var _ messageReader = &messageReaderMock{}

type messageReaderMock struct {
	FetchMessageFunc   func(ctx context.Context) (kafkago.Message, error)
	CommitMessagesFunc func(ctx context.Context, msgs ...kafkago.Message) error
	CloseFunc          func() error

	calls struct {
		FetchMessage   []struct{ Ctx context.Context }
		CommitMessages []struct {
			Ctx  context.Context
			Msgs []kafkago.Message
		}
		Close []struct{}
	}
	lockFetchMessage   sync.RWMutex
	lockCommitMessages sync.RWMutex
	lockClose          sync.RWMutex
}

func (mock *messageReaderMock) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if mock.FetchMessageFunc == nil {
		panic("messageReaderMock.FetchMessageFunc: method is nil but messageReader.FetchMessage was just called")
	}
	mock.lockFetchMessage.Lock()
	mock.calls.FetchMessage = append(mock.calls.FetchMessage, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockFetchMessage.Unlock()
	return mock.FetchMessageFunc(ctx)
}

func (mock *messageReaderMock) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if mock.CommitMessagesFunc == nil {
		panic("messageReaderMock.CommitMessagesFunc: method is nil but messageReader.CommitMessages was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Msgs []kafkago.Message
	}{Ctx: ctx, Msgs: msgs}
	mock.lockCommitMessages.Lock()
	mock.calls.CommitMessages = append(mock.calls.CommitMessages, callInfo)
	mock.lockCommitMessages.Unlock()
	return mock.CommitMessagesFunc(ctx, msgs...)
}

func (mock *messageReaderMock) CommitMessagesCalls() []struct {
	Ctx  context.Context
	Msgs []kafkago.Message
} {
	mock.lockCommitMessages.RLock()
	calls := mock.calls.CommitMessages
	mock.lockCommitMessages.RUnlock()
	return calls
}

func (mock *messageReaderMock) Close() error {
	if mock.CloseFunc == nil {
		panic("messageReaderMock.CloseFunc: method is nil but messageReader.Close was just called")
	}
	mock.lockClose.Lock()
	mock.calls.Close = append(mock.calls.Close, struct{}{})
	mock.lockClose.Unlock()
	return mock.CloseFunc()
}

var _ deadLetter = &deadLetterMock{}

type deadLetterMock struct {
	ForwardFunc func(ctx context.Context, msg kafkago.Message, cause error) error

	calls struct {
		Forward []struct {
			Ctx   context.Context
			Msg   kafkago.Message
			Cause error
		}
	}
	lockForward sync.RWMutex
}

func (mock *deadLetterMock) Forward(ctx context.Context, msg kafkago.Message, cause error) error {
	if mock.ForwardFunc == nil {
		panic("deadLetterMock.ForwardFunc: method is nil but deadLetter.Forward was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Msg   kafkago.Message
		Cause error
	}{Ctx: ctx, Msg: msg, Cause: cause}
	mock.lockForward.Lock()
	mock.calls.Forward = append(mock.calls.Forward, callInfo)
	mock.lockForward.Unlock()
	return mock.ForwardFunc(ctx, msg, cause)
}

func (mock *deadLetterMock) ForwardCalls() []struct {
	Ctx   context.Context
	Msg   kafkago.Message
	Cause error
} {
	mock.lockForward.RLock()
	calls := mock.calls.Forward
	mock.lockForward.RUnlock()
	return calls
}
