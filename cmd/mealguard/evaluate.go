package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/output"
	"github.com/mealguard-dev/mealguard/internal/version"
)

// exitBlocked is returned when the evaluated order is BLOCKED.
const exitBlocked = 2

type evaluateOptions struct {
	CommonOptions
	profilePath string
	orderPath   string
	menuPath    string
}

func newEvaluateCmd(g *globalOptions) *cobra.Command {
	opts := &evaluateOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "evaluate --profile resident.yaml --order order.yaml",
		Short: "Evaluate one order against a resident's profile",
		Long: `Load a resident profile and an order, evaluate every line against the
active rule set and print the verdicts.

The command exits with status 2 when the order is BLOCKED, so it can gate
order submission in scripts.`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return opts.ValidateFlags()
		},
		RunE: withContainer(g, &opts.Rules, true, func(cc *CommandContext, cmd *cobra.Command, _ []string) error {
			return runEvaluate(cc, cmd, opts)
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Resident profile document (YAML or JSON)")
	cmd.Flags().StringVar(&opts.orderPath, "order", "", "Order document (YAML or JSON)")
	cmd.Flags().StringVar(&opts.menuPath, "menu", "", "Menu document that order lines reference by item_id")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func runEvaluate(cc *CommandContext, cmd *cobra.Command, opts *evaluateOptions) error {
	ctx, cancel := opts.ApplyToContext(cc.Context)
	defer cancel()

	loader := config.NewDocumentLoader()
	profile, err := loader.LoadProfile(opts.profilePath)
	if err != nil {
		return err
	}
	order, err := loader.LoadOrder(opts.orderPath)
	if err != nil {
		return err
	}
	menu, err := loader.LoadMenu(opts.menuPath)
	if err != nil {
		return err
	}

	resp, err := cc.Container.EvaluateOrder().Execute(ctx, dto.EvaluateOrderRequest{
		Profile: profile,
		Order:   order,
		Menu:    menu,
		Metadata: dto.RequestMetadata{
			RequestID: uuid.NewString(),
			Principal: cliPrincipal(),
		},
	})
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(opts.OutFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut()

	formatter, err := output.NewFormatterFactory().Create(opts.Format, w, ports.FormatterOptions{
		Indent:      true,
		Color:       !opts.NoColor && opts.OutFile == "" && isTerminal(os.Stdout),
		ToolVersion: version.Get().Version,
		SourcePath:  opts.orderPath,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(resp); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if resp.Result.Verdict.IsBlocked() {
		return &exitError{
			code: exitBlocked,
			msg: fmt.Sprintf("order blocked: %d of %d lines blocked",
				resp.Result.Summary.BlockedLines, resp.Result.Summary.TotalLines),
		}
	}
	return nil
}

// cliPrincipal is the identity one-shot CLI evaluations run as.
func cliPrincipal() dto.Principal {
	subject := os.Getenv("USER")
	if subject == "" {
		subject = "cli"
	}
	return dto.Principal{Subject: subject, Roles: []string{dto.RoleEvaluator}}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
