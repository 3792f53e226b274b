package cli

import (
	"fmt"

	"wishlist-cli/internal/docs"
	"wishlist-cli/internal/format"
	"wishlist-cli/internal/uierr"

	"github.com/spf13/cobra"
)

const docsWidth = 80

type docTopics []string

func (t docTopics) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(t))
	for _, topic := range t {
		rows = append(rows, []string{topic})
	}
	return []string{"topic"}, rows
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, envelope{Data: docTopics(docs.Topics())})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, uierr.Invalid("topic", fmt.Sprintf("unknown topic %q (run `wishlist docs` to list topics)", topic)))
			}

			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case app.Format == "table":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), format.RenderMarkdown(body, docsWidth, app.cfg.TUI.Theme))
				return err
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")

	return cmd
}
