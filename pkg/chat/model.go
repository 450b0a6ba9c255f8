package chat

import "context"

// Model is the surface a chat backend exposes: one-shot invocation,
// incremental streaming, and order-preserving batch invocation.
// Implementations own connection handling, auth and retries; this
// package only defines the shape their results flow through.
type Model interface {
	// Invoke produces one complete message for the prompt.
	Invoke(ctx context.Context, prompt Prompt, opts ...CallOption) (*Message, error)

	// Stream produces a finite, single-consumption chunk stream for
	// the prompt.
	Stream(ctx context.Context, prompt Prompt, opts ...CallOption) (*Stream, error)

	// Batch produces one message per prompt, in prompt order.
	Batch(ctx context.Context, prompts []Prompt, opts ...CallOption) ([]*Message, error)
}

// StreamObserver receives stream lifecycle notifications from a
// model. Notifications are fire-and-forget and arrive in emission
// order; an observer must not assume it can abort the producing
// stream. Failure isolation (catching, logging) belongs to the
// adapter, not the model.
type StreamObserver interface {
	// StreamStarted fires once per stream with the serialized request.
	StreamStarted(ctx context.Context, runID string, request []byte)

	// TokenEmitted fires for each produced chunk with its content
	// token, the model-level run identity and the chunk itself (which
	// carries the stream's shared chunk identity).
	TokenEmitted(ctx context.Context, runID string, token string, chunk *Chunk)
}

// CallOptions carry per-call configuration for a model invocation.
type CallOptions struct {
	// Tags are opaque labels attached to emitted events.
	Tags []string

	// Observers receive lifecycle notifications in registration order.
	Observers []StreamObserver
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithTags attaches opaque labels to the call.
func WithTags(tags ...string) CallOption {
	return func(o *CallOptions) {
		o.Tags = append(o.Tags, tags...)
	}
}

// WithObservers registers stream observers for the call.
func WithObservers(obs ...StreamObserver) CallOption {
	return func(o *CallOptions) {
		o.Observers = append(o.Observers, obs...)
	}
}

// ApplyCallOptions folds a list of options into a CallOptions value.
func ApplyCallOptions(opts ...CallOption) *CallOptions {
	o := &CallOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
