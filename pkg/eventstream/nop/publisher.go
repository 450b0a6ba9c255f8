package nop

import (
	"context"

	"github.com/spoolworks/spool/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and
// disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishStreamStart validates input and otherwise does nothing.
func (p *Publisher) PublishStreamStart(_ context.Context, event *eventstream.StreamStartEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

// PublishToken validates input and otherwise does nothing.
func (p *Publisher) PublishToken(_ context.Context, event *eventstream.TokenEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
