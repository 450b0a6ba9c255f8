package eventstream

import (
	"context"

	"go.uber.org/zap"
)

// Fanout is an in-process Publisher that dispatches each event to a
// set of registered handlers, in registration order. Each handler is
// isolated: a returned error or a panic is logged and the remaining
// handlers still run. Fanout itself never reports a handler failure
// upward, so the producing stream is never aborted by a consumer.
type Fanout struct {
	handlers []Handler
	logger   *zap.Logger
}

// NewFanout creates a fanout publisher over the given handlers.
// A nil logger falls back to a no-op logger.
func NewFanout(logger *zap.Logger, handlers ...Handler) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{handlers: handlers, logger: logger}
}

// PublishStreamStart dispatches the event to every handler.
func (f *Fanout) PublishStreamStart(ctx context.Context, event *StreamStartEvent) error {
	if event == nil {
		return ErrNilEvent
	}
	for i, h := range f.handlers {
		f.dispatch(i, event.EventType, func() error {
			return h.HandleStreamStart(ctx, event)
		})
	}
	return nil
}

// PublishToken dispatches the event to every handler.
func (f *Fanout) PublishToken(ctx context.Context, event *TokenEvent) error {
	if event == nil {
		return ErrNilEvent
	}
	for i, h := range f.handlers {
		f.dispatch(i, event.EventType, func() error {
			return h.HandleToken(ctx, event)
		})
	}
	return nil
}

// Close is a no-op; handlers own their resources.
func (f *Fanout) Close() error {
	return nil
}

// dispatch runs one handler call, containing errors and panics.
func (f *Fanout) dispatch(idx int, eventType string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("event handler panicked",
				zap.Int("handler", idx),
				zap.String("event_type", eventType),
				zap.Any("panic", r),
			)
		}
	}()

	if err := fn(); err != nil {
		f.logger.Warn("event handler failed",
			zap.Int("handler", idx),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
