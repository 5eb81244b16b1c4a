package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization. rules
// overrides the configured rule source when set; offline skips the cache,
// event stream and external audit stores.
func withContainer(g *globalOptions, rules *string, offline bool, handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := *g.config()
		if rules != nil && *rules != "" {
			cfg.Rules.Source = *rules
		}

		logger := slog.Default()
		c, err := container.New(cmd.Context(), container.Options{
			Config:  &cfg,
			Logger:  logger,
			Offline: offline,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("failed to close resources", "error", err)
			}
		}()

		return handler(&CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}, cmd, args)
	}
}
