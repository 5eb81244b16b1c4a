package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/httpapi"
)

func newTokenCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}
	cmd.AddCommand(newTokenIssueCmd(g))
	return cmd
}

func newTokenIssueCmd(g *globalOptions) *cobra.Command {
	var (
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue --subject nurse-17",
		Short: "Issue a signed bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := g.config().Auth
			if auth.HMACSecret == "" {
				return fmt.Errorf("auth.hmac_secret is not configured")
			}
			for _, r := range roles {
				if r != dto.RoleEvaluator && r != dto.RoleAdmin {
					return fmt.Errorf("unknown role %q (valid: %s, %s)", r, dto.RoleEvaluator, dto.RoleAdmin)
				}
			}

			tokens := httpapi.NewTokenService(auth.HMACSecret, auth.Issuer, auth.Audience)
			token, err := tokens.Issue(subject, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, usually the caller's user id")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{dto.RoleEvaluator}, "Roles to grant")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
