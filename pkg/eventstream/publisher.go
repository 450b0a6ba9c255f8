package eventstream

import "context"

// Publisher delivers stream lifecycle events to an event backend.
// Publish calls for one stream arrive in emission order; backends
// that cannot preserve order must partition by RunID.
type Publisher interface {
	PublishStreamStart(ctx context.Context, event *StreamStartEvent) error
	PublishToken(ctx context.Context, event *TokenEvent) error
	Close() error
}

// Handler consumes stream events in-process. Handlers are registered
// with a Fanout publisher; a failing or panicking handler is isolated
// and never affects other handlers or the producing stream.
type Handler interface {
	HandleStreamStart(ctx context.Context, event *StreamStartEvent) error
	HandleToken(ctx context.Context, event *TokenEvent) error
}
