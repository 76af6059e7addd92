package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 200 * time.Millisecond
)

// messageReader is satisfied by *kafkago.Reader.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// deadLetter receives messages whose handler kept failing.
type deadLetter interface {
	Forward(ctx context.Context, msg kafkago.Message, cause error) error
}

// Handler processes one message value.
type Handler func(ctx context.Context, value []byte) error

// NewReader creates a consumer-group reader for topic.
func NewReader(brokers []string, groupID, topic string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})
}

// Consumer feeds messages from one reader to a handler and commits them.
type Consumer struct {
	log      *slog.Logger
	r        messageReader
	topic    string
	handler  Handler
	attempts int
	backoff  time.Duration
	dlq      deadLetter
}

// ConsumerOption customises a Consumer.
type ConsumerOption func(*Consumer)

// WithRetry sets how many times a message is handled before it is given up
// on, and the delay before the first retry. The delay doubles per retry.
func WithRetry(attempts int, backoff time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithDeadLetter forwards messages that exhausted their retries to dl.
func WithDeadLetter(dl deadLetter) ConsumerOption {
	return func(c *Consumer) { c.dlq = dl }
}

// NewConsumer creates a consumer.
func NewConsumer(log *slog.Logger, r messageReader, topic string, handler Handler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		log:      log.With("component", "kafka_consumer", "topic", topic),
		r:        r,
		topic:    topic,
		handler:  handler,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled. A message is committed once it was
// handled, or once it was forwarded to the dead-letter topic after its
// retries ran out.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.r.Close()

	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: fetch from %s: %w", c.topic, err)
		}

		if err := c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.ErrorContext(ctx, "handle message",
				slog.Int64("offset", msg.Offset),
				slog.Int("attempts", c.attempts),
				slog.String("error", err.Error()),
			)
			if c.dlq != nil {
				if ferr := c.dlq.Forward(ctx, msg, err); ferr != nil {
					return fmt.Errorf("kafka: forward %s@%d: %w", c.topic, msg.Offset, ferr)
				}
			}
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka: commit %s@%d: %w", c.topic, msg.Offset, err)
		}
	}
}

// handle runs the handler until it succeeds, the attempts are spent or ctx
// is done.
func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	delay := c.backoff
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, msg.Value)
		if err == nil {
			return nil
		}
		if attempt >= c.attempts {
			return err
		}
		c.log.WarnContext(ctx, "retry message",
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
