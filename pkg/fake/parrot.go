package fake

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spoolworks/spool/pkg/chat"
)

// Parrot is a chat model that echoes the last message of its prompt
// back, role and fields preserved, with a fresh identity.
type Parrot struct {
	splitter *chat.Splitter
}

var _ chat.Model = (*Parrot)(nil)

// NewParrot creates a parrot model.
func NewParrot() *Parrot {
	return &Parrot{splitter: chat.NewSplitter()}
}

// Invoke echoes the last prompt message.
func (p *Parrot) Invoke(_ context.Context, prompt chat.Prompt, _ ...chat.CallOption) (*chat.Message, error) {
	if len(prompt) == 0 {
		return nil, errors.New("fake: empty prompt")
	}

	msg := prompt[len(prompt)-1].Clone()
	msg.ID = uuid.NewString()
	return &msg, nil
}

// Stream echoes the last prompt message as a chunk stream.
func (p *Parrot) Stream(ctx context.Context, prompt chat.Prompt, _ ...chat.CallOption) (*chat.Stream, error) {
	if len(prompt) == 0 {
		return nil, errors.New("fake: empty prompt")
	}
	return p.splitter.Split(prompt[len(prompt)-1]), nil
}

// Batch echoes once per prompt, preserving prompt order.
func (p *Parrot) Batch(ctx context.Context, prompts []chat.Prompt, opts ...chat.CallOption) ([]*chat.Message, error) {
	out := make([]*chat.Message, 0, len(prompts))
	for _, pr := range prompts {
		msg, err := p.Invoke(ctx, pr, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
