package chat

// Role identifies the conversational party that produced a message.
type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
	RoleTool   Role = "tool"
)

// Message is a complete conversational message: plain content, an
// optional ordered tree of additional fields (e.g. a function-call
// descriptor), and an opaque stream identity assigned when the
// message was produced by a stream.
//
// Messages are values; operations on them return new messages and
// never mutate their inputs.
type Message struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Fields  *Fields  `json:"fields,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// AI returns an assistant message with the given content.
func AI(content string) Message {
	return Message{Role: RoleAI, Content: content}
}

// Human returns a human message with the given content.
func Human(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// WithFields returns a copy of m carrying the given additional fields.
func (m Message) WithFields(f *Fields) Message {
	m.Fields = f
	return m
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	m.Fields = m.Fields.Clone()
	return m
}

// Equal reports full equality, identity included.
func (m Message) Equal(other Message) bool {
	return m.ID == other.ID && m.EqualContent(other)
}

// EqualContent reports equality of role, content and fields while
// ignoring identity. Reconstructed messages compare to their source
// with EqualContent, since the source had no identity before
// splitting.
func (m Message) EqualContent(other Message) bool {
	return m.Role == other.Role &&
		m.Content == other.Content &&
		m.Fields.Equal(other.Fields)
}

// Chunk is one incremental piece of a message under construction.
// It is structurally identical to Message but semantically partial:
// folding all chunks of one stream in emission order reconstructs the
// source message, with every chunk sharing one identity.
type Chunk struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Fields  *Fields  `json:"fields,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// Clone returns a deep copy of c.
func (c *Chunk) Clone() *Chunk {
	if c == nil {
		return nil
	}
	out := *c
	out.Fields = c.Fields.Clone()
	return &out
}

// Message converts the accumulated chunk into a complete message.
func (c *Chunk) Message() Message {
	return Message{
		Role:    c.Role,
		Content: c.Content,
		Fields:  c.Fields,
		ID:      c.ID,
	}
}

// Equal reports full chunk equality, identity included.
func (c *Chunk) Equal(other *Chunk) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.ID == other.ID &&
		c.Role == other.Role &&
		c.Content == other.Content &&
		c.Fields.Equal(other.Fields)
}

// Prompt is the input to a chat model: an ordered message history.
type Prompt []Message

// Text returns a single-message prompt carrying s as a human message.
func Text(s string) Prompt {
	return Prompt{Human(s)}
}
