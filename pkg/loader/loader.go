// Package loader maps document-store records into generic documents:
// selected fields joined into page content, selected fields lifted
// into metadata.
package loader

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/docstore"
)

// Document is one loaded record: joined text content plus metadata.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ConfigurationError reports a missing required loader setting.
// Construction fails fast; a loader is never partially constructed.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("loader configuration: %s is required", e.Field)
}

// Config holds the loader's settings.
type Config struct {
	// Store is the document store to read from.
	Store docstore.Store

	// Database and Collection name the record source; both are
	// stamped into document metadata unless OmitSourceMetadata is set.
	Database   string
	Collection string

	// Filter restricts which records load. Nil loads everything.
	Filter docstore.Filter

	// FieldNames are the dot-delimited paths whose values join (space
	// separated, in order) into each document's page content.
	FieldNames []string

	// MetadataNames are the dot-delimited paths lifted into document
	// metadata. Missing paths default to "".
	MetadataNames []string

	// OmitSourceMetadata suppresses the database/collection metadata
	// entries.
	OmitSourceMetadata bool
}

// Loader reads records from a document store and maps them to
// documents.
type Loader struct {
	cfg    *Config
	logger *zap.Logger
}

// New validates the configuration and constructs a loader.
func New(cfg *Config, logger *zap.Logger) (*Loader, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Field: "config"}
	}
	if cfg.Store == nil {
		return nil, &ConfigurationError{Field: "store"}
	}
	if cfg.Database == "" {
		return nil, &ConfigurationError{Field: "database"}
	}
	if cfg.Collection == "" {
		return nil, &ConfigurationError{Field: "collection"}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{cfg: cfg, logger: logger}, nil
}

// Load reads all matching records and maps each into a Document.
//
// The store is counted first, then iterated with a projection
// covering the configured field and metadata paths. When iteration
// yields fewer records than the count, which can happen under
// concurrent writes, the shortfall is logged as a warning and the
// retrieved documents are returned.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	total, err := l.cfg.Store.Count(ctx, l.cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	it, err := l.cfg.Store.Iterate(ctx, l.cfg.Filter, l.projection())
	if err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	var docs []Document
	for {
		record, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if record == nil {
			break
		}
		docs = append(docs, l.mapRecord(record))
	}

	if int64(len(docs)) != total {
		l.logger.Warn("only a partial collection of documents was returned",
			zap.Int("loaded", len(docs)),
			zap.Int64("expected", total),
			zap.String("database", l.cfg.Database),
			zap.String("collection", l.cfg.Collection),
		)
	}

	return docs, nil
}

// projection covers every path Load extracts, so drivers can avoid
// materializing unused fields.
func (l *Loader) projection() []docstore.FieldPath {
	if len(l.cfg.FieldNames) == 0 && len(l.cfg.MetadataNames) == 0 {
		return nil
	}

	paths := make([]docstore.FieldPath, 0, len(l.cfg.FieldNames)+len(l.cfg.MetadataNames))
	for _, name := range l.cfg.FieldNames {
		paths = append(paths, docstore.FieldPath(name))
	}
	for _, name := range l.cfg.MetadataNames {
		paths = append(paths, docstore.FieldPath(name))
	}
	return paths
}

func (l *Loader) mapRecord(record docstore.Record) Document {
	metadata := make(map[string]any, len(l.cfg.MetadataNames)+2)
	for _, name := range l.cfg.MetadataNames {
		metadata[name] = docstore.FieldPath(name).Extract(record, "")
	}

	if !l.cfg.OmitSourceMetadata {
		metadata["database"] = l.cfg.Database
		metadata["collection"] = l.cfg.Collection
	}

	parts := make([]string, 0, len(l.cfg.FieldNames))
	for _, name := range l.cfg.FieldNames {
		value := docstore.FieldPath(name).Extract(record, "")
		parts = append(parts, fmt.Sprintf("%v", value))
	}

	return Document{
		PageContent: strings.Join(parts, " "),
		Metadata:    metadata,
	}
}
