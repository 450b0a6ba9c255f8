package eventstream

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/spoolworks/spool/pkg/chat"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeStreamStart is emitted once when a model begins
	// producing a chunk stream.
	EventTypeStreamStart = "spool.stream.start"

	// EventTypeToken is emitted for every chunk the stream produces,
	// in emission order.
	EventTypeToken = "spool.stream.token"
)

// StreamStartEvent is a transport-neutral payload announcing a new
// chunk stream. Request carries the serialized prompt that started it.
type StreamStartEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	RunID         string          `json:"run_id"`
	Tags          []string        `json:"tags,omitempty"`
	Request       json.RawMessage `json:"request,omitempty"`
}

// TokenEvent is a transport-neutral payload for one produced chunk.
// RunID groups events of one model call; ChunkID is the identity
// shared by every chunk of the stream (and the folded message).
type TokenEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	RunID         string      `json:"run_id"`
	ChunkID       string      `json:"chunk_id,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Token         string      `json:"token"`
	Chunk         *chat.Chunk `json:"chunk,omitempty"`
}

// NewStreamStartEvent builds a v1 stream-start event envelope.
func NewStreamStartEvent(runID string, request []byte) *StreamStartEvent {
	return &StreamStartEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeStreamStart,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		RunID:         runID,
		Request:       request,
	}
}

// NewTokenEvent builds a v1 token event envelope for one chunk.
func NewTokenEvent(runID, token string, chunk *chat.Chunk) *TokenEvent {
	ev := &TokenEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeToken,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		RunID:         runID,
		Token:         token,
		Chunk:         chunk,
	}
	if chunk != nil {
		ev.ChunkID = chunk.ID
	}
	return ev
}
