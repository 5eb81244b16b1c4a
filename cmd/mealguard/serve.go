package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/httpserver"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var (
		addr  string
		rules string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation API over HTTP",
		Long: `Start the HTTP API:

  POST /v1/evaluations                       evaluate an order
  GET  /v1/evaluations/{id}                  read an audit record
  GET  /v1/residents/{id}/evaluations        a resident's audit history
  GET  /v1/rules                             active rule set
  POST /v1/rules/reload                      reload the rule set (admin)
  GET  /healthz, /metrics`,
		Args: cobra.NoArgs,
		RunE: withContainer(g, &rules, false, func(cc *CommandContext, cmd *cobra.Command, _ []string) error {
			cfg := cc.Container.Config()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cc.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if watch || cfg.Rules.Watch {
				go func() {
					err := cc.Container.RuleSets().Watch(ctx)
					if err != nil && !errors.Is(err, context.Canceled) {
						cc.Logger.Warn("rule set watch stopped", "error", err)
					}
				}()
			}

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			srv := httpserver.New(cfg.Server, cc.Container.HTTPHandler())
			return httpserver.Run(ctx, srv, ln, cfg.Server.ShutdownTimeout, cc.Logger)
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&rules, "rules", "", "Rule set source (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the rule set when its source changes")
	return cmd
}
