package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/clarify/internal/app"
	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past explanations",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
		newHistoryRetainCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent explanations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search past explanations for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf(ErrQueryRequired)
			}
			return searchHistoryEntries(cmd.OutOrStdout(), container, query, searchLimit)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored explanations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(container)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache hit rate, level mix and top topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryRetainCommand creates the 'history retain' subcommand
func newHistoryRetainCommand(container *app.Container) *cobra.Command {
	var retainDays int

	cmd := &cobra.Command{
		Use:   "retain",
		Short: "Prune history older than N days and update retention policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if retainDays <= 0 {
				return fmt.Errorf(ErrInvalidRetainDays)
			}
			return updateHistoryRetention(cmd.Context(), cmd.OutOrStdout(), container, retainDays)
		},
	}

	cmd.Flags().IntVar(&retainDays, "days", domain.DefaultHistoryRetainDays, "Days to retain history")
	return cmd
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	entries, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, entry := range entries {
		marker := " "
		if entry.Cached {
			marker = "*"
		}
		fmt.Fprintf(out, "%-18s %s %-8s %s\n",
			humanize.Time(entry.Timestamp),
			marker,
			entry.Level,
			entry.Topic)
	}

	return nil
}

// searchHistoryEntries searches history for a keyword
func searchHistoryEntries(out io.Writer, container *app.Container, query string, limit int) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	entries, err := store.Search(query, limit)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}

	for _, entry := range entries {
		fmt.Fprintf(out, "%-18s %-8s %s\n",
			humanize.Time(entry.Timestamp),
			entry.Level,
			entry.Topic)
	}

	return nil
}

// clearHistory clears the history store
func clearHistory(container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := container.HistoryStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// exportHistory exports history to a JSONL file
func exportHistory(container *app.Container, path string) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.ExportJSON(path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	return nil
}

// showHistoryStats displays cache behavior and usage statistics
func showHistoryStats(out io.Writer, container *app.Container) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	entries, err := store.Recent(MaxHistoryAnalysisEntries)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistoryStatistics(out, entries)
	return nil
}

// updateHistoryRetention prunes old history and updates retention policy
func updateHistoryRetention(ctx context.Context, out io.Writer, container *app.Container, days int) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	if err := store.PruneOlderThan(days); err != nil {
		return fmt.Errorf("failed to prune old history: %w", err)
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.History.RetainDays = days
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Retained last %d days of history.\n", days)
	return nil
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, entries []domain.HistoryEntry) {
	cached := 0
	topicFreq := make(map[string]int)
	for _, entry := range entries {
		if entry.Cached {
			cached++
		}
		topicFreq[entry.Topic]++
	}

	fmt.Fprintf(out, "Entries analyzed: %d\nCache hit rate: %.1f%%\nAvg response time: %.0f ms\n",
		len(entries),
		helpers.CalculateCacheHitRate(cached, len(entries)),
		helpers.CalculateAverageResponseTime(entries))

	fmt.Fprintln(out, "Top topics:")
	for _, stat := range helpers.CalculateTopTopics(topicFreq, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Topic, stat.Count)
	}

	fmt.Fprintln(out, "By level:")
	levelCounts := helpers.CountByLevel(entries)
	for _, level := range domain.Levels() {
		if count := levelCounts[level]; count > 0 {
			fmt.Fprintf(out, "  %s: %d\n", level, count)
		}
	}
}
