package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/kielabel/internal/batch"
	"github.com/MeKo-Tech/kielabel/internal/config"
	"github.com/spf13/cobra"
)

func newAssignCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign [files or directories...]",
		Short: "Assign key classes to the value boxes of PPOCRLabel records",
		Long: `Read PPOCRLabel annotation files, find the printed field labels of each
vehicle certificate record, and write every record back with key_cls set on
the value boxes to the right of each label.

Directories are searched for Label.txt. Each input gets its own output,
Label.kie.txt next to it, unless --output names a file for a single input.

Examples:
  kielabel assign dataset/Label.txt
  kielabel assign dataset/ --recursive --format json --report summary.json
  kielabel assign Label.txt -o Label.kie.txt --catalogue fields.yaml
  kielabel assign dataset/ --row-overlap 0.5 --min-x-gap 8`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignCommand(a, cmd, args)
		},
	}

	// Assignment flags
	cmd.Flags().String("catalogue", "", "field catalogue YAML file (default: built-in certificate fields)")
	cmd.Flags().Float64("min-x-gap", 0, "how far right of a label's edge a value's center must lie")
	cmd.Flags().Float64("row-overlap", 0, "minimum vertical overlap ratio for a box to share a label's row (0.0-1.0)")

	// Output flags
	cmd.Flags().StringP("output", "o", "", "output label file (single input only)")
	cmd.Flags().StringP("format", "f", "text", "summary format: text, json, csv")
	cmd.Flags().String("report", "", "write the summary to this file instead of stdout")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics in textfile format to this path")

	// File discovery flags
	cmd.Flags().BoolP("recursive", "r", true, "recursively scan directories")
	cmd.Flags().StringSlice("include", []string{batch.DefaultLabelFile}, "file patterns to include")
	cmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress flags
	cmd.Flags().BoolP("quiet", "q", false, "suppress the summary and statistics")
	cmd.Flags().Bool("stats", true, "show run statistics")

	return cmd
}

// configToBatchConfig maps centralized configuration to batch.Config.
// Flags that were set on the command line win over config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := cfg.ToBatchConfig()

	if cmd.Flags().Changed("catalogue") {
		batchConfig.Catalogue, _ = cmd.Flags().GetString("catalogue")
	}
	if cmd.Flags().Changed("min-x-gap") {
		batchConfig.MinXGap, _ = cmd.Flags().GetFloat64("min-x-gap")
	}
	if cmd.Flags().Changed("row-overlap") {
		batchConfig.RowOverlap, _ = cmd.Flags().GetFloat64("row-overlap")
	}
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("metrics-file") {
		batchConfig.MetricsFile, _ = cmd.Flags().GetString("metrics-file")
	}
	if cmd.Flags().Changed("recursive") {
		batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	}
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}
	if cmd.Flags().Changed("exclude") {
		batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}

	// Report and progress settings are CLI-only
	batchConfig.ReportFile, _ = cmd.Flags().GetString("report")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")

	return batchConfig
}

func runAssignCommand(a *app, cmd *cobra.Command, args []string) error {
	batchConfig := configToBatchConfig(a.cfg, cmd)

	result, err := batch.ProcessBatch(args, batchConfig)
	if err != nil {
		return fmt.Errorf("assignment failed: %w", err)
	}

	if !batchConfig.Quiet || batchConfig.ReportFile != "" {
		if err := result.SaveResults(cmd.OutOrStdout(), batchConfig.Format, batchConfig.ReportFile, batchConfig.Quiet); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
	}

	if batchConfig.ShowStats {
		result.PrintStats(cmd.OutOrStdout(), batchConfig.Quiet)
	}

	return nil
}
