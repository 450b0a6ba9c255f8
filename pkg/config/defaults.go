package config

const (
	// v0 is the alpha version of the config.
	v0 = 0

	// CurrentV is the currently supported version, points to v0.
	CurrentV = v0

	defaultLeafSeparator = ","

	defaultSQLitePath = "spool.db"
	defaultDatabase   = "spool"
	defaultCollection = "documents"

	defaultPublisher  = "nop"
	defaultKafkaTopic = "spool.stream.events"
	defaultQueueSize  = 256
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Stream: StreamConfig{
			LeafSeparator: defaultLeafSeparator,
		},
		Docstore: DocstoreConfig{
			SQLitePath: defaultSQLitePath,
			Database:   defaultDatabase,
			Collection: defaultCollection,
		},
		Events: EventsConfig{
			Publisher: defaultPublisher,
			Topic:     defaultKafkaTopic,
			QueueSize: defaultQueueSize,
		},
	}
}
