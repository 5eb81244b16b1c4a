package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/output"
)

// CommonOptions contains flags shared by the commands that print results.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string
	NoColor bool

	// Execution
	Timeout time.Duration

	// Rules overrides the configured rule set source
	Rules string
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 2 * time.Minute,
		Format:  "table",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for entire execution (0 to disable)")
	cmd.Flags().StringVar(&opts.Rules, "rules", "",
		"Rule set source: file path, s3://bucket/key, or \"embedded\" (default from config)")

	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(output.NewFormatterFactory().SupportedFormats(), ", "))
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
}

// ApplyToContext applies timeout to context.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	formats := output.NewFormatterFactory().SupportedFormats()
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(formats, ", "))
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	return nil
}
