package main

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	domainservices "github.com/mealguard-dev/mealguard/internal/domain/services"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/synth"
)

type simulateOptions struct {
	rules       string
	count       int
	seed        int64
	concurrency int
	menuSize    int
	filter      string
	progress    bool
}

// simulationSummary aggregates the outcome of a simulate run.
type simulationSummary struct {
	mu       sync.Mutex
	total    int
	matched  int
	verdicts map[values.Verdict]int
	kinds    map[string]int
	examples []string
}

func (s *simulationSummary) add(resp *dto.EvaluateOrderResponse, matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if !matched {
		return
	}
	s.matched++
	s.verdicts[resp.Result.Verdict]++
	for _, f := range resp.Result.Findings() {
		s.kinds[string(f.Kind)]++
	}
	if len(s.examples) < 5 && resp.Result.Verdict.IsBlocked() {
		s.examples = append(s.examples, resp.Result.ResidentID+"/"+resp.Result.OrderID)
	}
}

func (s *simulationSummary) print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintf(w, "Evaluated %d orders in %s (%d matched filter)\n", s.total, elapsed.Round(time.Millisecond), s.matched)
	for _, v := range []values.Verdict{values.VerdictAllowed, values.VerdictAllowedWithWarning, values.VerdictBlocked} {
		fmt.Fprintf(w, "  %-22s %d\n", v, s.verdicts[v])
	}
	if len(s.kinds) > 0 {
		kinds := make([]string, 0, len(s.kinds))
		for k := range s.kinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Fprintln(w, "Findings:")
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-22s %d\n", k, s.kinds[k])
		}
	}
	for _, e := range s.examples {
		fmt.Fprintf(w, "  blocked: %s\n", e)
	}
}

func newSimulateCmd(g *globalOptions) *cobra.Command {
	opts := &simulateOptions{count: 100, seed: 1, concurrency: 4, menuSize: 40}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evaluate synthetic residents and orders against the rule set",
		Long: `Generate synthetic resident profiles and orders from the active rule set
and evaluate them in parallel. Useful for exercising a new rule set before
it is deployed.

Filter the summary with an expression, for example:

  mealguard simulate --count 500 --filter 'verdict == "BLOCKED" && "FluidLimitExceeded" in kinds'`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if opts.count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			if opts.concurrency <= 0 {
				return fmt.Errorf("--concurrency must be positive")
			}
			return nil
		},
		RunE: withContainer(g, &opts.rules, true, func(cc *CommandContext, cmd *cobra.Command, _ []string) error {
			return runSimulate(cc, cmd, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.rules, "rules", "", "Rule set source (default from config)")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "Number of orders to generate")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "Random seed for reproducible runs")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", opts.concurrency, "Parallel evaluations")
	cmd.Flags().IntVar(&opts.menuSize, "menu-size", opts.menuSize, "Synthetic menu size")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only count results matching this expression")
	cmd.Flags().BoolVar(&opts.progress, "progress", true, "Show a progress bar on stderr")
	return cmd
}

func runSimulate(cc *CommandContext, cmd *cobra.Command, opts *simulateOptions) error {
	filter, err := domainservices.NewResultFilter(opts.filter)
	if err != nil {
		return err
	}
	snap := cc.Container.RuleRepository().Current()
	if snap == nil {
		return domainservices.ErrNoRuleSet
	}

	gen := synth.New(opts.seed, snap, opts.menuSize)
	menu := gen.Menu()
	cases := gen.Cases(opts.count)

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions(len(cases),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("evaluating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	summary := &simulationSummary{verdicts: map[values.Verdict]int{}, kinds: map[string]int{}}
	principal := cliPrincipal()
	start := time.Now()

	eg, ctx := errgroup.WithContext(cc.Context)
	eg.SetLimit(opts.concurrency)
	for _, c := range cases {
		eg.Go(func() error {
			resp, err := cc.Container.EvaluateOrder().Execute(ctx, dto.EvaluateOrderRequest{
				Profile: c.Profile,
				Order:   c.Order,
				Menu:    menu,
				Metadata: dto.RequestMetadata{
					RequestID: uuid.NewString(),
					Principal: principal,
				},
				Options: dto.EvaluateOptions{SkipAudit: true, SkipCache: true},
			})
			if err != nil {
				return fmt.Errorf("order %s: %w", c.Order.ID, err)
			}
			matched, err := filter.Matches(resp.Result)
			if err != nil {
				return err
			}
			summary.add(resp, matched)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	summary.print(cmd.OutOrStdout(), time.Since(start))
	return nil
}
