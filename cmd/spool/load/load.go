// Package loadcmder provides the load command: read records from a
// SQLite-backed document store and print the mapped documents.
package loadcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/cliui"
	"github.com/spoolworks/spool/pkg/config"
	"github.com/spoolworks/spool/pkg/docstore"
	"github.com/spoolworks/spool/pkg/docstore/sqlite"
	"github.com/spoolworks/spool/pkg/loader"
	"github.com/spoolworks/spool/pkg/logger"
	"github.com/spoolworks/spool/pkg/utils"
)

const loadLongDesc string = `Load documents from a SQLite document store.

Each record's selected fields join into the document's page content;
metadata fields are lifted alongside. Filters are dot-path equality
matches against record fields.

Examples:
  spool load --field title --field body
  spool load --field body --metadata author --filter status=published`

const loadShortDesc string = "Load documents from a document store"

type loadCommander struct {
	dbPath     string
	collection string
	fields     []string
	metadata   []string
	filters    []string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewLoadCmd() *cobra.Command {
	cmder := &loadCommander{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: loadShortDesc,
		Long:  loadLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg

			if !cmd.Flags().Changed("db") {
				cmder.dbPath = cfg.Docstore.SQLitePath
			}
			if !cmd.Flags().Changed("collection") {
				cmder.collection = cfg.Docstore.Collection
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.dbPath, "db", defaults.Docstore.SQLitePath, "SQLite database path")
	cmd.Flags().StringVar(&cmder.collection, "collection", defaults.Docstore.Collection, "Collection to load from")
	cmd.Flags().StringSliceVar(&cmder.fields, "field", nil, "Record field (dot path) joined into page content")
	cmd.Flags().StringSliceVar(&cmder.metadata, "metadata", nil, "Record field (dot path) lifted into metadata")
	cmd.Flags().StringSliceVar(&cmder.filters, "filter", nil, "Equality filter as path=value")

	return cmd
}

func (c *loadCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug))
	defer func() { _ = c.logger.Sync() }()

	filter, err := parseFilters(c.filters)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(c.dbPath, c.collection)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.logger.Warn("closing document store", zap.Error(err))
		}
	}()

	ldr, err := loader.New(&loader.Config{
		Store:         store,
		Database:      c.cfg.Docstore.Database,
		Collection:    c.collection,
		Filter:        filter,
		FieldNames:    c.fields,
		MetadataNames: c.metadata,
	}, c.logger)
	if err != nil {
		return err
	}

	docs, err := ldr.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	fmt.Println()
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Loaded:"),
		cliui.NameStyle.Render(fmt.Sprintf("%d documents", len(docs))),
	)

	for i, doc := range docs {
		fmt.Printf("  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("[%d]", i)),
			utils.Truncate(doc.PageContent, 80),
		)
		for k, v := range doc.Metadata {
			fmt.Printf("      %s %v\n", cliui.DimStyle.Render(k+":"), v)
		}
	}

	return nil
}

// parseFilters converts path=value pairs into an equality filter.
func parseFilters(pairs []string) (docstore.Filter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filter := make(docstore.Filter, len(pairs))
	for _, pair := range pairs {
		path, value, ok := strings.Cut(pair, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid filter %q (expected path=value)", pair)
		}
		filter[path] = value
	}
	return filter, nil
}
