// Package docstore defines the narrow document-store surface the
// loader consumes (count and lazy iteration with projection) along
// with the record, filter and field-path types shared by drivers.
package docstore

import (
	"context"
	"errors"
	"reflect"
	"strings"
)

// ErrNilRecord indicates a nil record was offered to a store.
var ErrNilRecord = errors.New("nil record")

// Record is a nested key/value document.
type Record map[string]any

// Clone returns a shallow-nested copy of the record (maps copied at
// every level, leaf values shared).
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		if m, ok := v.(map[string]any); ok {
			out[k] = map[string]any(Record(m).Clone())
			continue
		}
		out[k] = v
	}
	return out
}

// Filter selects records by equality over dot-delimited field paths.
// An empty or nil filter matches every record.
type Filter map[string]any

// Matches reports whether the record satisfies every filter entry.
func (f Filter) Matches(r Record) bool {
	for path, want := range f {
		got, ok := FieldPath(path).Lookup(r)
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// FieldPath is a dot-delimited key path into a record.
type FieldPath string

// Lookup walks the path through nested maps, reporting the value and
// whether every segment was present.
func (p FieldPath) Lookup(r Record) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range strings.Split(string(p), ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Extract returns the value at the path, or def when any segment is
// missing.
func (p FieldPath) Extract(r Record, def any) any {
	v, ok := p.Lookup(r)
	if !ok {
		return def
	}
	return v
}

// Project rebuilds a record containing only the given paths,
// preserving nesting. A nil or empty projection returns the record
// unchanged.
func Project(r Record, paths []FieldPath) Record {
	if len(paths) == 0 {
		return r
	}

	out := make(Record)
	for _, p := range paths {
		v, ok := p.Lookup(r)
		if !ok {
			continue
		}

		keys := strings.Split(string(p), ".")
		cursor := map[string]any(out)
		for _, key := range keys[:len(keys)-1] {
			next, ok := cursor[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cursor[key] = next
			}
			cursor = next
		}
		cursor[keys[len(keys)-1]] = v
	}
	return out
}

// Iterator is a lazy, single-consumption record sequence.
// Next returns nil, nil at exhaustion and keeps returning it. The
// backing cursor is released at exhaustion or on the first error;
// a caller abandoning the iterator early must call Close.
type Iterator struct {
	next  func() (Record, error)
	close func() error
	done  bool
}

// NewIterator wraps a pull function; it must return nil, nil at
// exhaustion.
func NewIterator(next func() (Record, error)) *Iterator {
	return &Iterator{next: next}
}

// NewClosingIterator wraps a pull function together with a cleanup
// hook releasing the backing cursor.
func NewClosingIterator(next func() (Record, error), close func() error) *Iterator {
	return &Iterator{next: next, close: close}
}

// FromRecords returns an iterator over the given records.
func FromRecords(records ...Record) *Iterator {
	i := 0
	return NewIterator(func() (Record, error) {
		if i >= len(records) {
			return nil, nil
		}
		r := records[i]
		i++
		return r, nil
	})
}

// Next returns the next record, or nil, nil when exhausted.
func (it *Iterator) Next() (Record, error) {
	if it.done {
		return nil, nil
	}
	r, err := it.next()
	if err != nil {
		_ = it.Close()
		return nil, err
	}
	if r == nil {
		_ = it.Close()
	}
	return r, nil
}

// Close releases the backing cursor and latches the iterator.
// Idempotent; Next calls it at exhaustion and on the first error, so
// only an abandoned iteration needs an explicit Close.
func (it *Iterator) Close() error {
	it.done = true
	if it.close == nil {
		return nil
	}
	c := it.close
	it.close = nil
	return c()
}

// Store is the document-store surface the loader consumes. The
// backing client owns connections, query execution and pagination;
// this interface only exposes counting and lazy iteration.
type Store interface {
	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Iterate returns a lazy iterator over matching records, each
	// reduced to the projection when one is given. Callers abandoning
	// the iterator before exhaustion must Close it.
	Iterate(ctx context.Context, filter Filter, projection []FieldPath) (*Iterator, error)

	// Close releases backing resources.
	Close() error
}
