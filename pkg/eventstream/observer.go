package eventstream

import (
	"context"

	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/chat"
)

// Observer adapts a Publisher into a chat.StreamObserver: it wraps
// each notification in a versioned event envelope and publishes it.
// Publish failures are logged and swallowed; a broken event backend
// must not abort the producing stream.
type Observer struct {
	pub    Publisher
	tags   []string
	logger *zap.Logger
}

var _ chat.StreamObserver = (*Observer)(nil)

// NewObserver wraps pub as a stream observer. A nil logger falls back
// to a no-op logger.
func NewObserver(pub Publisher, logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{pub: pub, logger: logger}
}

// WithTags returns a copy of the observer that stamps the given tags
// onto every emitted event.
func (o *Observer) WithTags(tags ...string) *Observer {
	out := *o
	out.tags = append(append([]string(nil), o.tags...), tags...)
	return &out
}

// StreamStarted publishes a stream-start event.
func (o *Observer) StreamStarted(ctx context.Context, runID string, request []byte) {
	ev := NewStreamStartEvent(runID, request)
	ev.Tags = o.tags

	if err := o.pub.PublishStreamStart(ctx, ev); err != nil {
		o.logger.Warn("stream start event dropped",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
}

// TokenEmitted publishes a token event.
func (o *Observer) TokenEmitted(ctx context.Context, runID string, token string, chunk *chat.Chunk) {
	ev := NewTokenEvent(runID, token, chunk)
	ev.Tags = o.tags

	if err := o.pub.PublishToken(ctx, ev); err != nil {
		o.logger.Warn("token event dropped",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
}
