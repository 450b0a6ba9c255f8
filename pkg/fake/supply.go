// Package fake provides deterministic chat models for tests and
// demos: a generic model fed by a scripted message supply, and a
// parrot model that echoes its prompt.
package fake

import (
	"sync"

	"github.com/spoolworks/spool/pkg/chat"
)

// Supply produces the messages a Generic model responds with.
type Supply interface {
	// Next returns the next message. Supplies may be infinite;
	// callers bound consumption externally.
	Next() chat.Message
}

// cycleSupply repeats a fixed message list forever.
type cycleSupply struct {
	mu   sync.Mutex
	msgs []chat.Message
	i    int
}

// Cycle returns an infinite supply that yields the given messages in
// order, wrapping around forever. The supply never terminates on its
// own; consumers must bound how many responses they draw. With no
// messages Cycle returns nil, which NewGeneric rejects.
func Cycle(msgs ...chat.Message) Supply {
	if len(msgs) == 0 {
		return nil
	}
	return &cycleSupply{msgs: msgs}
}

func (c *cycleSupply) Next() chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := c.msgs[c.i%len(c.msgs)]
	c.i++
	return msg.Clone()
}
