package chat

// Merge combines two chunks of one logical stream into a new chunk.
// It is a pure function: neither input is mutated, and a nil side acts
// as the identity element, which simplifies fold initialization.
//
// Content concatenates left-to-right. Fields merge structurally:
// keys present on one side pass through, string leaves concatenate,
// nested maps merge recursively, and any other pairing fails with
// IncompatibleMergeError. Identity is the left chunk's when set,
// otherwise the right's; the first-seen identity is never
// renegotiated.
//
// Merging is associative over well-formed splitter output: it commutes
// across distinct top-level keys but is order-sensitive within one
// key's string-leaf sequence and within content.
func Merge(left, right *Chunk) (*Chunk, error) {
	if left == nil {
		return right.Clone(), nil
	}
	if right == nil {
		return left.Clone(), nil
	}

	if left.Role != "" && right.Role != "" && left.Role != right.Role {
		return nil, &RoleConflictError{Left: left.Role, Right: right.Role}
	}

	role := left.Role
	if role == "" {
		role = right.Role
	}

	id := left.ID
	if id == "" {
		id = right.ID
	}

	fields, err := mergeFields("", left.Fields, right.Fields)
	if err != nil {
		return nil, err
	}

	return &Chunk{
		Role:    role,
		Content: left.Content + right.Content,
		Fields:  fields,
		ID:      id,
	}, nil
}

func mergeFields(path string, left, right *Fields) (*Fields, error) {
	if left == nil {
		return right.Clone(), nil
	}
	if right == nil {
		return left.Clone(), nil
	}

	out := left.Clone()
	for _, k := range right.Keys() {
		rv, _ := right.Get(k)

		lv, ok := out.Get(k)
		if !ok {
			out.Set(k, rv.clone())
			continue
		}

		merged, err := mergeValue(joinPath(path, k), lv, rv)
		if err != nil {
			return nil, err
		}
		out.Set(k, merged)
	}
	return out, nil
}

func mergeValue(path string, left, right Value) (Value, error) {
	switch lv := left.(type) {
	case StringValue:
		if rv, ok := right.(StringValue); ok {
			return lv + rv, nil
		}
	case MapValue:
		if rv, ok := right.(MapValue); ok {
			merged, err := mergeFields(path, lv.Fields, rv.Fields)
			if err != nil {
				return nil, err
			}
			return Map(merged), nil
		}
	case ScalarValue:
		// Scalars never combine, not even with another scalar.
	}

	return nil, &IncompatibleMergeError{
		Path:      path,
		LeftKind:  left.Kind(),
		RightKind: right.Kind(),
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Fold merges every chunk from the stream, in emission order, into a
// single reconstructed message. A single pass with a single
// accumulator: the first merge error aborts the whole fold and the
// partial accumulation is discarded. Folding an empty stream yields
// the empty message.
func Fold(s *Stream) (*Message, error) {
	acc := &Accumulator{}
	for {
		c, err := s.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}
		if err := acc.Add(c); err != nil {
			return nil, err
		}
	}
	return acc.Message(), nil
}

// Accumulator folds chunks one step at a time, exposing the running
// partial chunk after each step for progressive display. One
// accumulator serves one stream; it holds no locks and no goroutines.
type Accumulator struct {
	acc *Chunk
}

// Add merges the next chunk into the accumulator.
func (a *Accumulator) Add(c *Chunk) error {
	merged, err := Merge(a.acc, c)
	if err != nil {
		return err
	}
	a.acc = merged
	return nil
}

// Chunk returns the running accumulated chunk, nil before the first Add.
func (a *Accumulator) Chunk() *Chunk {
	return a.acc
}

// Message returns the accumulated state as a complete message.
// Before the first Add it returns the empty message.
func (a *Accumulator) Message() *Message {
	if a.acc == nil {
		return &Message{}
	}
	m := a.acc.Message()
	return &m
}
