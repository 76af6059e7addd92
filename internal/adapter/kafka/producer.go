// Package kafka publishes pipeline payloads and consumes them in the worker.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const defaultTimeout = 10 * time.Second

// messageWriter is satisfied by *kafkago.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes JSON payloads to any topic.
type Producer struct {
	log     *slog.Logger
	w       messageWriter
	timeout time.Duration
}

// NewWriter creates a topic-less writer; the topic is set per message.
func NewWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewProducer creates a producer on top of w.
func NewProducer(log *slog.Logger, w messageWriter) *Producer {
	return &Producer{log: log.With("component", "kafka_producer"), w: w, timeout: defaultTimeout}
}

// Push serialises payload as JSON and writes it to topic. Without a caller
// deadline the write is bounded by a default timeout.
func (p *Producer) Push(ctx context.Context, topic string, payload any) error {
	if _, ok := ctx.Deadline(); !ok && p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: marshal payload for %s: %w", topic, err)
	}
	msg := kafkago.Message{
		Topic:   topic,
		Value:   b,
		Headers: []kafkago.Header{{Key: "content-type", Value: []byte("application/json")}},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: produce to %s: %w", topic, err)
	}
	p.log.DebugContext(ctx, "pushed", slog.String("topic", topic), slog.Int("bytes", len(b)))
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.w.Close()
}

// ErrorReporter publishes bulk error details to a dedicated topic.
type ErrorReporter struct {
	producer *Producer
	topic    string
}

// NewErrorReporter creates a reporter writing to topic.
func NewErrorReporter(p *Producer, topic string) *ErrorReporter {
	return &ErrorReporter{producer: p, topic: topic}
}

func (r *ErrorReporter) Report(ctx context.Context, details *domain.ErrorDetails) error {
	return r.producer.Push(ctx, r.topic, details)
}

// DeadLetter copies messages that could not be handled to a dedicated topic,
// keeping the original value and recording where it came from.
type DeadLetter struct {
	producer *Producer
	topic    string
}

// NewDeadLetter creates a dead-letter sink writing to topic.
func NewDeadLetter(p *Producer, topic string) *DeadLetter {
	return &DeadLetter{producer: p, topic: topic}
}

func (d *DeadLetter) Forward(ctx context.Context, msg kafkago.Message, cause error) error {
	p := d.producer
	if _, ok := ctx.Deadline(); !ok && p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	out := kafkago.Message{
		Topic: d.topic,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: []kafkago.Header{
			{Key: "x-source-topic", Value: []byte(msg.Topic)},
			{Key: "x-source-offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			{Key: "x-error", Value: []byte(cause.Error())},
		},
	}
	if err := p.w.WriteMessages(ctx, out); err != nil {
		return fmt.Errorf("kafka: dead-letter to %s: %w", d.topic, err)
	}
	p.log.WarnContext(ctx, "message dead-lettered",
		slog.String("source_topic", msg.Topic),
		slog.Int64("offset", msg.Offset),
		slog.String("topic", d.topic),
	)
	return nil
}
