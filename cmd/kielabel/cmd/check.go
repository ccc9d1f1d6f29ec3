package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/kielabel/internal/check"
	"github.com/MeKo-Tech/kielabel/internal/common"
	"github.com/MeKo-Tech/kielabel/internal/metrics"
	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <label-file>",
		Short: "Validate key classes in a label file",
		Long: `Validate every record of a label file: key classes must be on the
allow-list, a key must not carry two different values, repeated values and
unrecognized placeholders are flagged, and undecodable lines are reported.

One line is printed per problem image: the image identifier, a TAB, and the
sorted findings. Reports are in Chinese by default; use --lang en for English.

Examples:
  kielabel check dataset/Label.txt
  kielabel check dataset/Label.txt --allow-none --lang en
  kielabel check dataset/Label.txt --dedup
  kielabel check dataset/Label.txt --watch`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCommand(a, cmd, args[0])
		},
	}

	cmd.Flags().Bool("allow-none", false, "skip items without a key class")
	cmd.Flags().Bool("dedup", false, "drop repeated key/value pairs and rewrite the file")
	cmd.Flags().String("lang", "zh", "report language: zh, en")
	cmd.Flags().Bool("watch", false, "re-run the check whenever the file changes")
	cmd.Flags().Duration("debounce", check.DefaultDebounce, "quiet period before a re-run in --watch mode")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics in textfile format to this path")

	return cmd
}

func runCheckCommand(a *app, cmd *cobra.Command, path string) error {
	opts := a.cfg.ToCheckOptions()
	if cmd.Flags().Changed("allow-none") {
		opts.AllowNone, _ = cmd.Flags().GetBool("allow-none")
	}
	opts.Dedup, _ = cmd.Flags().GetBool("dedup")

	lang := a.cfg.Check.Lang
	if cmd.Flags().Changed("lang") {
		lang, _ = cmd.Flags().GetString("lang")
	}
	tag, err := check.ParseLang(lang)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	checker := check.NewChecker(opts)
	printer := check.NewPrinter(tag)
	rec := metrics.New()
	out := cmd.OutOrStdout()

	run := func() error {
		timer := common.StartTimer(path)
		report, err := checker.CheckFile(path, rec)
		if err != nil {
			return err
		}
		rec.ObserveDuration("check", timer.Stop())
		if err := printer.Write(out, report); err != nil {
			return err
		}
		slog.Info("label file checked", "path", path, "records", report.Records,
			"problems", len(report.Problems), "rewritten", report.Rewritten, "removed", report.Removed)
		if err := rec.WriteTextfile(metricsFile); err != nil {
			slog.Warn("could not write metrics", "path", metricsFile, "error", err)
		}
		return nil
	}

	if !watch {
		if err := run(); err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return check.Watch(ctx, path, debounce, run)
}
