// Package streamcmder provides the stream command: split a message
// into chunks, print every token as it streams past, and fold the
// chunks back into the whole message.
package streamcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spoolworks/spool/pkg/chat"
	"github.com/spoolworks/spool/pkg/cliui"
	"github.com/spoolworks/spool/pkg/config"
	"github.com/spoolworks/spool/pkg/eventstream"
	"github.com/spoolworks/spool/pkg/eventstream/asyncq"
	"github.com/spoolworks/spool/pkg/eventstream/kafka"
	"github.com/spoolworks/spool/pkg/eventstream/nop"
	"github.com/spoolworks/spool/pkg/fake"
	"github.com/spoolworks/spool/pkg/logger"
)

const streamLongDesc string = `Split a message into ordered chunks and fold it back together.

The text streams through a deterministic chat model: each word and
each space is its own chunk, every chunk shares one stream identity,
and folding the chunks reconstructs the original message exactly.
With --call-name/--call-args, a function-call field streams alongside
the content, subdivided per key.

Examples:
  spool stream --text "hello goodbye"
  spool stream --text "" --call-name move_file --call-args '{"src": "a", "dst": "b"}'
  spool stream --text "# heading" --markdown`

const streamShortDesc string = "Split a message into chunks and fold it back"

type streamCommander struct {
	text     string
	callName string
	callArgs string
	markdown bool
	debug    bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewStreamCmd() *cobra.Command {
	cmder := &streamCommander{}

	cmd := &cobra.Command{
		Use:   "stream",
		Short: streamShortDesc,
		Long:  streamLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfg = cfg
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

	cmd.Flags().StringVarP(&cmder.text, "text", "t", "hello goodbye", "Message content to stream")
	cmd.Flags().StringVar(&cmder.callName, "call-name", "", "Function call name streamed as an additional field")
	cmd.Flags().StringVar(&cmder.callArgs, "call-args", "", "Function call arguments streamed as a chunked string leaf")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render the folded message as markdown")

	return cmd
}

func (c *streamCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug))
	defer func() { _ = c.logger.Sync() }()

	publisher, err := c.newPublisher()
	if err != nil {
		return fmt.Errorf("configuring event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			c.logger.Warn("closing event publisher", zap.Error(err))
		}
	}()

	model, err := fake.NewGeneric(
		fake.Cycle(c.buildMessage()),
		fake.WithSplitter(c.newSplitter()),
	)
	if err != nil {
		return err
	}

	observer := eventstream.NewObserver(publisher, c.logger)
	stream, err := model.Stream(ctx, chat.Text(c.text), chat.WithObservers(observer))
	if err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	fmt.Println()
	acc := &chat.Accumulator{}
	count := 0
	for {
		chunk, err := stream.Next()
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
		if chunk == nil {
			break
		}

		if chunk.Content != "" {
			fmt.Print(cliui.TokenStyle.Render(chunk.Content))
		}
		if err := acc.Add(chunk); err != nil {
			return fmt.Errorf("folding stream: %w", err)
		}
		count++
	}
	fmt.Println()
	fmt.Println()

	folded := acc.Message()
	reconstructed := folded.EqualContent(c.buildMessage())

	fmt.Printf("  %s %s %s\n",
		cliui.Mark(boolErr(reconstructed)),
		cliui.KeyStyle.Render("Folded"),
		cliui.DimStyle.Render(fmt.Sprintf("(%d chunks, id %s)", count, folded.ID)),
	)

	if c.markdown {
		rendered, err := cliui.RenderMarkdown(folded.Content)
		if err != nil {
			c.logger.Debug("markdown rendering failed", zap.Error(err))
		}
		fmt.Println(rendered)
	}

	return nil
}

// buildMessage assembles the source message from flags.
func (c *streamCommander) buildMessage() chat.Message {
	msg := chat.AI(c.text)
	if c.callName == "" && c.callArgs == "" {
		return msg
	}

	call := chat.NewFields()
	if c.callName != "" {
		call.Set("name", chat.String(c.callName))
	}
	if c.callArgs != "" {
		call.Set("arguments", chat.String(c.callArgs))
	}

	return msg.WithFields(chat.NewFields().Set("function_call", chat.Map(call)))
}

func (c *streamCommander) newSplitter() *chat.Splitter {
	if c.cfg.Stream.LeafChunkSize > 0 {
		return chat.NewSplitter(chat.WithLeafPolicy(chat.FixedSize(int(c.cfg.Stream.LeafChunkSize))))
	}
	return chat.NewSplitter(chat.WithLeafPolicy(chat.SplitKeeping(c.cfg.Stream.LeafSeparator)))
}

// newPublisher builds the configured event backend, always wrapped in
// the async queue so delivery stays off the token print path.
func (c *streamCommander) newPublisher() (eventstream.Publisher, error) {
	var delegate eventstream.Publisher

	switch c.cfg.Events.Publisher {
	case "kafka":
		pub, err := kafka.NewPublisher(&kafka.Config{
			Brokers: c.cfg.Events.Brokers,
			Topic:   c.cfg.Events.Topic,
			Logger:  c.logger,
		})
		if err != nil {
			return nil, err
		}
		delegate = pub
	default:
		delegate = nop.NewPublisher()
	}

	return asyncq.NewPublisher(&asyncq.Config{
		Delegate:  delegate,
		QueueSize: c.cfg.Events.QueueSize,
		Logger:    c.logger,
	})
}

// boolErr maps a success flag onto the error-shaped cliui.Mark input.
func boolErr(ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("mismatch")
}
