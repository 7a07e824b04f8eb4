package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/clarify/internal/app"
	"github.com/doeshing/clarify/internal/format"
)

// NewExportCommand creates the export command: it renders the stored
// explanation for a topic to HTML or markdown.
func NewExportCommand(container *app.Container) *cobra.Command {
	var (
		output string
		as     string
	)

	cmd := &cobra.Command{
		Use:   "export <topic>",
		Short: "Export a stored explanation as HTML or markdown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			return exportExplanation(container, topic, as, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	cmd.Flags().StringVar(&as, "as", "markdown", "Output format: markdown | html")
	return cmd
}

func exportExplanation(container *app.Container, topic, as, output string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	entries, err := store.Search(topic, 1)
	if err != nil {
		return fmt.Errorf("failed to look up %q: %w", topic, err)
	}
	if len(entries) == 0 || entries[0].Explanation == "" {
		return fmt.Errorf("no stored explanation for %q", topic)
	}

	blocks := format.Format(entries[0].Explanation)
	var rendered string
	switch strings.ToLower(as) {
	case "html":
		rendered = format.RenderHTML(blocks)
	case "markdown", "md":
		rendered = format.RenderMarkdown(blocks)
	default:
		return fmt.Errorf("unknown export format %q (expected markdown or html)", as)
	}

	if output == "" {
		fmt.Print(rendered)
		return nil
	}
	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
