package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
)

func newRulesCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate rule sets",
	}
	cmd.AddCommand(newRulesValidateCmd(), newRulesShowCmd(g), newRulesSchemaCmd())
	return cmd
}

func newRulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <ruleset.yaml>...",
		Short: "Validate rule set documents against the schema and compile them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := config.NewRuleSetParser()
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				data, err := config.ReadFile(path)
				if err != nil {
					return err
				}
				snap, err := parser.Parse(data, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: version %s (%d diets, %d allergens, %d advisories)\n",
					path, snap.Version(), len(snap.DietTypeIDs()), len(snap.AllergenIDs()), len(snap.Advisories()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rule sets invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newRulesShowCmd(g *globalOptions) *cobra.Command {
	var source, format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load the configured rule set and print a summary",
		Args:  cobra.NoArgs,
		RunE: withContainer(g, &source, true, func(cc *CommandContext, cmd *cobra.Command, _ []string) error {
			info, err := cc.Container.RuleSets().Info()
			if err != nil {
				return err
			}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			default:
				return fmt.Errorf("invalid format: %s (valid: json, yaml)", format)
			}
		}),
	}
	cmd.Flags().StringVar(&source, "rules", "", "Rule set source (default from config)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: json, yaml")
	return cmd
}

func newRulesSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema rule set documents must satisfy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.RuleSetSchema())
			return err
		},
	}
}
