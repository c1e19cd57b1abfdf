// Package events routes pipeline lifecycle events to registered consumers.
// It replaces direct caller callbacks with an explicit bus so the console
// reporter, the run-report recorder and the metrics publisher can subscribe
// independently.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Well-known event names published by the pipeline.
const (
	PhotoState  = "photo:state"
	RunProgress = "run:progress"
	RunComplete = "run:complete"
)

// Event is one pipeline notification.
type Event struct {
	Name      string
	Payload   any
	Timestamp time.Time
}

// HandlerFunc consumes an event.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of
// dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging around the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Bus fans events out to every handler registered for their name.
// Publish order is preserved per handler; buffered handlers consume from
// their own queue, so completion counts stay monotonic while per-photo
// events may interleave.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	buffers  map[string]chan Event
	logger   Logger

	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter
}

// New creates a Bus with the given logger. Metrics come from the global
// OTel meter and are no-ops unless a provider is configured.
func New(logger Logger) (*Bus, error) {
	b := &Bus{
		handlers: make(map[string][]HandlerFunc),
		buffers:  make(map[string]chan Event),
		logger:   logger,
	}

	m := meter()

	var err error

	b.queueSize, err = m.Int64ObservableGauge(
		"events.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			b.mu.RLock()
			defer b.mu.RUnlock()
			for name, buf := range b.buffers {
				o.ObserveInt64(b.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("event", name)))
			}
			return nil
		},
		b.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	b.processed, err = m.Int64Counter(
		"events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	b.dropped, err = m.Int64Counter(
		"events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return b, nil
}

// Subscribe adds a handler for the given event name with optional
// configuration.
func (b *Bus) Subscribe(name string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = b.withBuffer(name, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = b.withLogging(name, handler)
	}

	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], handler)
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber of its name. Events with no
// subscribers are dropped silently.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	handlers := b.handlers[e.Name]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(e); err != nil && b.logger != nil {
			b.logger.Error("event handler failed", "event", e.Name, "error", err)
		}
	}
}

// HasSubscribers reports whether any handler is registered for the name.
func (b *Bus) HasSubscribers(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name]) > 0
}

func (b *Bus) withBuffer(name string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	b.mu.Lock()
	b.buffers[name] = buffer
	b.mu.Unlock()

	nameAttr := attribute.String("event", name)

	go func() {
		for e := range buffer {
			h(e)
			b.processed.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
		}
	}()

	if blocking {
		return func(e Event) error {
			buffer <- e
			return nil
		}
	}

	return func(e Event) error {
		select {
		case buffer <- e:
			return nil
		default:
			b.dropped.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
			return fmt.Errorf("queue full: %s", name)
		}
	}
}

func (b *Bus) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		b.logger.Debug("handling event", "event", name)

		err := h(e)

		if err != nil {
			b.logger.Error("event failed", "event", name, "duration", time.Since(start), "error", err)
		} else {
			b.logger.Debug("event complete", "event", name, "duration", time.Since(start))
		}

		return err
	}
}
