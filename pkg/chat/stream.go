package chat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Stream is a finite, single-consumption sequence of chunks.
//
// Next returns nil, nil once the underlying source is exhausted and
// keeps returning it afterwards. A stream is not restartable: it is
// bound to one underlying source, which may itself be a one-shot
// cursor. Abandoning a stream before exhaustion is always safe; any
// cleanup belongs to the producer that owns the source.
type Stream struct {
	next func() (*Chunk, error)
	done bool
}

// NewStream wraps a pull function into a stream. The function must
// return nil, nil at exhaustion.
func NewStream(next func() (*Chunk, error)) *Stream {
	return &Stream{next: next}
}

// FromChunks returns a one-shot stream over the given chunks.
func FromChunks(chunks ...*Chunk) *Stream {
	i := 0
	return NewStream(func() (*Chunk, error) {
		if i >= len(chunks) {
			return nil, nil
		}
		c := chunks[i]
		i++
		return c, nil
	})
}

// Next returns the next chunk, or nil, nil when the stream is
// exhausted.
func (s *Stream) Next() (*Chunk, error) {
	if s.done {
		return nil, nil
	}
	c, err := s.next()
	if err != nil {
		s.done = true
		return nil, err
	}
	if c == nil {
		s.done = true
	}
	return c, nil
}

// Collect drains the stream into a slice.
func (s *Stream) Collect() ([]*Chunk, error) {
	var out []*Chunk
	for {
		c, err := s.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return out, nil
		}
		out = append(out, c)
	}
}

// NewChunkReader adapts a newline-delimited JSON byte stream, one
// chunk object per line, into a chunk stream. Blank lines are skipped;
// a malformed line fails the stream.
func NewChunkReader(r io.Reader) *Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return NewStream(func() (*Chunk, error) {
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var c Chunk
			if err := json.Unmarshal(line, &c); err != nil {
				return nil, fmt.Errorf("parsing chunk line: %w", err)
			}
			return &c, nil
		}

		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading chunk stream: %w", err)
		}
		return nil, nil
	})
}
