package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/clarify/internal/app"
	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/match"
)

// NewSuggestCommand creates the suggest command
func NewSuggestCommand(container *app.Container) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "suggest <partial topic>",
		Short: "Suggest topics from history matching a partial input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := domain.Level("")
			if level != "" {
				parsed, err := domain.ParseLevel(level)
				if err != nil {
					return err
				}
				current = parsed
			}
			return showSuggestions(cmd.OutOrStdout(), container, strings.Join(args, " "), current)
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "Prefer suggestions at this level")
	return cmd
}

func showSuggestions(out io.Writer, container *app.Container, input string, current domain.Level) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	entries, err := store.Recent(0)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	suggestions := match.Suggest(input, entries, current, time.Now())
	if len(suggestions) == 0 {
		fmt.Fprintln(out, MsgNoSuggestions)
		return nil
	}

	for _, s := range suggestions {
		fmt.Fprintf(out, "%.2f  %-9s %-8s %-40s %s\n",
			s.Score, s.MatchType, s.Entry.Level, s.Entry.Topic, humanize.Time(s.Entry.Timestamp))
	}
	return nil
}
