// Package asyncq wraps an eventstream.Publisher behind a buffered
// queue drained by a single goroutine, decoupling event delivery from
// the producing stream's hot path. One worker keeps delivery order
// identical to emission order.
package asyncq

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/eventstream"
)

var defaultQueueSize uint = 256

// Config is the configuration options for the async queue.
type Config struct {
	// Delegate is the publisher that actually delivers events.
	Delegate eventstream.Publisher

	// QueueSize is the capacity of the buffered event channel
	// (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// job holds exactly one of the event kinds.
type job struct {
	start *eventstream.StreamStartEvent
	token *eventstream.TokenEvent
}

// Publisher enqueues events and delivers them asynchronously through
// the delegate. Enqueueing never blocks: when the queue is full the
// event is dropped with an error log, since stream events are
// fire-and-forget.
type Publisher struct {
	delegate eventstream.Publisher
	queue    chan job
	wg       sync.WaitGroup
	logger   *zap.Logger
}

// NewPublisher creates the async publisher and starts its worker.
func NewPublisher(c *Config) (*Publisher, error) {
	if c == nil || c.Delegate == nil {
		return nil, errors.New("asyncq requires a delegate publisher")
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Publisher{
		delegate: c.Delegate,
		queue:    make(chan job, c.QueueSize),
		logger:   logger,
	}

	p.wg.Add(1)
	go p.worker()

	return p, nil
}

// PublishStreamStart enqueues a stream-start event.
func (p *Publisher) PublishStreamStart(_ context.Context, event *eventstream.StreamStartEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	p.enqueue(job{start: event}, event.EventType, event.RunID)
	return nil
}

// PublishToken enqueues a token event.
func (p *Publisher) PublishToken(_ context.Context, event *eventstream.TokenEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	p.enqueue(job{token: event}, event.EventType, event.RunID)
	return nil
}

func (p *Publisher) enqueue(j job, eventType, runID string) {
	select {
	case p.queue <- j:
		p.logger.Debug("event queued",
			zap.String("event_type", eventType),
			zap.String("run_id", runID),
		)
	default:
		p.logger.Error("event not queued, queue full, event dropped",
			zap.String("event_type", eventType),
			zap.String("run_id", runID),
		)
	}
}

// Close stops accepting work, drains in-flight events, then closes
// the delegate.
func (p *Publisher) Close() error {
	close(p.queue)
	p.wg.Wait()
	return p.delegate.Close()
}

// worker continuously pulls events off the queue and delivers them
// through the delegate.
func (p *Publisher) worker() {
	defer p.wg.Done()

	for j := range p.queue {
		ctx := context.Background()

		var err error
		switch {
		case j.start != nil:
			err = p.delegate.PublishStreamStart(ctx, j.start)
		case j.token != nil:
			err = p.delegate.PublishToken(ctx, j.token)
		}

		if err != nil {
			p.logger.Warn("async event delivery failed", zap.Error(err))
		}
	}
}
