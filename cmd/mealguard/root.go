package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/sensitivedata"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/system"
)

// globalOptions holds flags shared by every command.
type globalOptions struct {
	cfgFile string
	verbose bool
	quiet   bool

	cfg     *system.Config
	secrets *sensitivedata.Provider
}

func newRootCmd() (*cobra.Command, *globalOptions) {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "mealguard",
		Short: "Dietary constraint and meal-order compliance engine",
		Long: `mealguard checks meal orders against each resident's allergies, diet,
IDDSI texture level, fluid restriction and portion policy, using a versioned
rule set. It runs one-shot evaluations from the command line or serves them
over HTTP.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load(cmd.Root().PersistentFlags(), cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is $HOME/.mealguard.yaml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "only log errors")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "log format: text or json")

	cmd.AddCommand(
		newEvaluateCmd(g),
		newRulesCmd(g),
		newServeCmd(g),
		newSimulateCmd(g),
		newTokenCmd(g),
		newVersionCmd(),
	)
	return cmd, g
}

// load reads configuration and installs the default logger.
func (g *globalOptions) load(flags *pflag.FlagSet, stderr io.Writer) error {
	if g.verbose && g.quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	loader := system.NewConfigLoader()
	if err := loader.BindFlags(flags); err != nil {
		return err
	}
	cfg, err := loader.Load(g.cfgFile)
	if err != nil {
		return err
	}
	g.cfg = cfg

	g.secrets = trackSecrets(cfg)
	logger := newLogger(sensitivedata.NewWriter(stderr, g.secrets), cfg.Log, g.verbose, g.quiet)
	slog.SetDefault(logger)
	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "file", used)
	}
	return nil
}

// trackSecrets registers every credential the config carries.
func trackSecrets(cfg *system.Config) *sensitivedata.Provider {
	p := sensitivedata.NewProvider()
	p.Track(cfg.Auth.HMACSecret, cfg.Rules.S3.SecretAccessKey)
	p.TrackURL(cfg.Audit.DSN)
	p.TrackURL(cfg.Cache.RedisURL)
	return p
}

func newLogger(w io.Writer, cfg system.LogConfig, verbose, quiet bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// config returns the loaded config, or defaults when a command runs without
// the persistent pre-run (as in tests).
func (g *globalOptions) config() *system.Config {
	if g.cfg == nil {
		g.cfg = system.DefaultConfig()
	}
	return g.cfg
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	//nolint:gosec // G304: User-controlled output file path is intentional
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
