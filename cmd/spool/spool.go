// Package spoolcmder
package spoolcmder

import (
	"github.com/spf13/cobra"

	loadcmder "github.com/spoolworks/spool/cmd/spool/load"
	streamcmder "github.com/spoolworks/spool/cmd/spool/stream"
	versioncmder "github.com/spoolworks/spool/cmd/version"
)

const spoolLongDesc string = `Spool winds streamed chat responses back into whole messages.

Split a message into ordered chunks, fold the chunks back together,
and watch every token on the way through:
  spool stream     Split a message and fold it back, token by token
  spool load       Load documents from a document store`

const spoolShortDesc string = "Spool - streamed message splitting and folding"

func NewSpoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: spoolShortDesc,
		Long:  spoolLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(streamcmder.NewStreamCmd())
	cmd.AddCommand(loadcmder.NewLoadCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
