package chat

import (
	"unicode"

	"github.com/google/uuid"
)

// ChunkPolicy subdivides a string leaf into emission-ordered pieces.
// Concatenating the pieces must reproduce the input exactly; a policy
// must return at least one piece so empty leaves survive the round
// trip.
type ChunkPolicy func(s string) []string

// SplitKeeping returns a policy that splits around sep, emitting each
// separator occurrence as its own piece so concatenation restores the
// original text.
func SplitKeeping(sep string) ChunkPolicy {
	return func(s string) []string {
		if sep == "" || s == "" {
			return []string{s}
		}

		var out []string
		for {
			i := indexOf(s, sep)
			if i < 0 {
				break
			}
			if i > 0 {
				out = append(out, s[:i])
			}
			out = append(out, sep)
			s = s[i+len(sep):]
		}
		if s != "" || len(out) == 0 {
			out = append(out, s)
		}
		return out
	}
}

// FixedSize returns a policy that cuts the leaf into substrings of at
// most n bytes.
func FixedSize(n int) ChunkPolicy {
	return func(s string) []string {
		if n <= 0 || len(s) <= n {
			return []string{s}
		}
		out := make([]string, 0, (len(s)+n-1)/n)
		for len(s) > n {
			out = append(out, s[:n])
			s = s[n:]
		}
		return append(out, s)
	}
}

func indexOf(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] == sep {
			return i
		}
	}
	return -1
}

// Splitter deterministically decomposes a message into an
// emission-ordered sequence of chunks such that folding the sequence
// reconstructs the message exactly.
//
// Content splits on whitespace with every separator character emitted
// as its own chunk, so merge-by-concatenation reproduces exact
// spacing. Additional fields emit per top-level key in insertion
// order: string leaves are subdivided by the leaf policy, scalar
// leaves pass whole, nested maps are walked recursively with each
// piece wrapped in its full key path.
type Splitter struct {
	leaf ChunkPolicy
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithLeafPolicy overrides how string leaves inside additional fields
// are subdivided. The default splits on "," keeping the separator.
func WithLeafPolicy(p ChunkPolicy) SplitterOption {
	return func(s *Splitter) {
		if p != nil {
			s.leaf = p
		}
	}
}

// NewSplitter returns a splitter with the default leaf policy.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{leaf: SplitKeeping(",")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split decomposes msg into a fresh one-shot chunk stream. The source
// message is never mutated. Every emitted chunk carries one fresh
// identity generated for this stream; the folded message carries the
// same identity. An empty message yields zero chunks.
func (sp *Splitter) Split(msg Message) *Stream {
	id := uuid.NewString()

	var chunks []*Chunk

	for _, token := range splitWhitespace(msg.Content) {
		chunks = append(chunks, &Chunk{Role: msg.Role, Content: token, ID: id})
	}

	if msg.Fields != nil {
		for _, key := range msg.Fields.Keys() {
			v, _ := msg.Fields.Get(key)
			chunks = sp.appendFieldChunks(chunks, msg.Role, id, []string{key}, v)
		}
	}

	return FromChunks(chunks...)
}

// appendFieldChunks walks one field value, emitting a chunk per leaf
// piece wrapped in the full key path.
func (sp *Splitter) appendFieldChunks(chunks []*Chunk, role Role, id string, path []string, v Value) []*Chunk {
	switch val := v.(type) {
	case StringValue:
		pieces := sp.leaf(string(val))
		if len(pieces) == 0 {
			pieces = []string{""}
		}
		for _, piece := range pieces {
			chunks = append(chunks, &Chunk{
				Role:   role,
				Fields: wrapPath(path, String(piece)),
				ID:     id,
			})
		}
	case ScalarValue:
		chunks = append(chunks, &Chunk{
			Role:   role,
			Fields: wrapPath(path, val.clone()),
			ID:     id,
		})
	case MapValue:
		for _, key := range val.Fields.Keys() {
			inner, _ := val.Fields.Get(key)
			chunks = sp.appendFieldChunks(chunks, role, id, append(path, key), inner)
		}
	}
	return chunks
}

// wrapPath nests v under the given key path, innermost last.
func wrapPath(path []string, v Value) *Fields {
	for i := len(path) - 1; i > 0; i-- {
		v = Map(NewFields().Set(path[i], v))
	}
	return NewFields().Set(path[0], v)
}

// splitWhitespace splits s into words and single whitespace
// characters, each its own token, preserving every byte of s.
func splitWhitespace(s string) []string {
	var out []string
	start := -1

	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			out = append(out, string(r))
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
