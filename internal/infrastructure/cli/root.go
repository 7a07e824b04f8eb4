// Package cli wires the cobra command tree and terminal rendering.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/clarify/internal/app"
	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	explainCmd := newExplainCommand(container)

	root := &cobra.Command{
		Use:   "clarify [topic]",
		Short: "clarify - plain-language explanations in your terminal",
		Long:  "clarify asks an explanation service about any topic, caches answers locally and renders them for the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			explainCmd.SetArgs(args)
			return explainCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(explainCmd)
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewSuggestCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewExportCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newExplainCommand(container *app.Container) *cobra.Command {
	var (
		level   string
		refresh bool
		render  string
		debug   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "explain [topic]",
		Short: "Explain a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			var lvl domain.Level
			if level != "" {
				parsed, err := domain.ParseLevel(level)
				if err != nil {
					return err
				}
				lvl = parsed
			}

			req := domain.ExplainRequest{
				Context:      ctx,
				Topic:        strings.Join(args, " "),
				Level:        lvl,
				ForceRefresh: refresh,
				Debug:        debug,
			}
			resp, err := container.ExplainService.Run(req)
			if err != nil {
				return err
			}
			mode := render
			if mode == "" {
				if cfg, cfgErr := container.ConfigProvider.Load(ctx); cfgErr == nil {
					mode = cfg.Preferences.RenderMode
				}
			}
			RenderResponse(cmd.OutOrStdout(), resp, mode)
			return nil
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "Explanation depth: simple|student|detailed|expert")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Bypass the cache and fetch a fresh explanation")
	cmd.Flags().StringVar(&render, "render", "", "Output rendering: text|markdown|html (default from config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall deadline for the request")

	return cmd
}
