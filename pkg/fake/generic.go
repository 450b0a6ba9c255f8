package fake

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/spoolworks/spool/pkg/chat"
)

// Generic is a deterministic chat model backed by a message supply.
// Invoke returns the supply's next message; Stream splits it into
// chunks with the configured splitter, notifying observers per token
// in emission order.
type Generic struct {
	supply   Supply
	splitter *chat.Splitter
}

var _ chat.Model = (*Generic)(nil)

// Option configures a Generic model.
type Option func(*Generic)

// WithSplitter overrides the splitter used by Stream.
func WithSplitter(s *chat.Splitter) Option {
	return func(g *Generic) {
		if s != nil {
			g.splitter = s
		}
	}
}

// NewGeneric creates a generic fake model over the given supply.
func NewGeneric(supply Supply, opts ...Option) (*Generic, error) {
	if supply == nil {
		return nil, errors.New("fake: message supply is required")
	}

	g := &Generic{
		supply:   supply,
		splitter: chat.NewSplitter(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Invoke returns the supply's next message with a fresh identity.
// The prompt only drives callbacks; it never influences the response.
func (g *Generic) Invoke(_ context.Context, _ chat.Prompt, _ ...chat.CallOption) (*chat.Message, error) {
	msg := g.supply.Next()
	msg.ID = uuid.NewString()
	return &msg, nil
}

// Stream splits the supply's next message into a chunk stream.
// Observers receive a stream-start notification with the serialized
// prompt, then one token notification per chunk, in emission order,
// interleaved with consumption.
func (g *Generic) Stream(ctx context.Context, prompt chat.Prompt, opts ...chat.CallOption) (*chat.Stream, error) {
	o := chat.ApplyCallOptions(opts...)

	msg := g.supply.Next()
	stream := g.splitter.Split(msg)

	if len(o.Observers) == 0 {
		return stream, nil
	}

	runID := uuid.NewString()

	request, err := json.Marshal(prompt)
	if err != nil {
		return nil, err
	}
	for _, obs := range o.Observers {
		obs.StreamStarted(ctx, runID, request)
	}

	return chat.NewStream(func() (*chat.Chunk, error) {
		c, err := stream.Next()
		if err != nil || c == nil {
			return c, err
		}
		for _, obs := range o.Observers {
			obs.TokenEmitted(ctx, runID, c.Content, c)
		}
		return c, nil
	}), nil
}

// Batch invokes once per prompt, preserving prompt order.
func (g *Generic) Batch(ctx context.Context, prompts []chat.Prompt, opts ...chat.CallOption) ([]*chat.Message, error) {
	out := make([]*chat.Message, 0, len(prompts))
	for _, p := range prompts {
		msg, err := g.Invoke(ctx, p, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
