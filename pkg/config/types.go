package config

// Config represents the persistent spool configuration stored as
// config.toml. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `mapstructure:"version" toml:"version"`
	Stream   StreamConfig   `mapstructure:"stream" toml:"stream"`
	Docstore DocstoreConfig `mapstructure:"docstore" toml:"docstore"`
	Events   EventsConfig   `mapstructure:"events" toml:"events"`
}

// StreamConfig holds splitter settings for the stream command.
type StreamConfig struct {
	// LeafSeparator is the separator used to subdivide string leaves
	// inside additional fields.
	LeafSeparator string `mapstructure:"leaf_separator" toml:"leaf_separator,omitempty"`

	// LeafChunkSize, when non-zero, switches leaf subdivision to
	// fixed-size pieces of this many bytes.
	LeafChunkSize uint `mapstructure:"leaf_chunk_size" toml:"leaf_chunk_size,omitempty"`
}

// DocstoreConfig holds document-store settings for the load command.
type DocstoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" toml:"sqlite_path,omitempty"`
	Database   string `mapstructure:"database" toml:"database,omitempty"`
	Collection string `mapstructure:"collection" toml:"collection,omitempty"`
}

// EventsConfig holds eventstream publisher settings.
type EventsConfig struct {
	// Publisher selects the event backend: "nop" or "kafka".
	Publisher string `mapstructure:"publisher" toml:"publisher,omitempty"`

	// Brokers and Topic configure the kafka backend.
	Brokers []string `mapstructure:"brokers" toml:"brokers,omitempty"`
	Topic   string   `mapstructure:"topic" toml:"topic,omitempty"`

	// QueueSize is the async delivery queue capacity.
	QueueSize uint `mapstructure:"queue_size" toml:"queue_size,omitempty"`
}
