package cmd

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/kielabel/internal/filter"
	"github.com/spf13/cobra"
)

func newFilterCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <directory>",
		Short: "Keep only allowed key classes in Label.txt and Cache.cach",
		Long: `Rewrite the label file and the annotation tool's cache file inside a
directory, keeping only items whose key class is on the keep-list. Lines that
do not parse are dropped. A missing file is reported and skipped.

Examples:
  kielabel filter dataset/
  kielabel filter dataset/ --keep vc_no,vc_vin
  kielabel filter dataset/ --cache-file ""`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilterCommand(a, cmd, args[0])
		},
	}

	cmd.Flags().StringSlice("keep", nil, "key classes to keep (default: the check allow-list)")
	cmd.Flags().String("label-file", filter.DefaultLabelFile, "label file name inside the directory")
	cmd.Flags().String("cache-file", filter.DefaultCacheFile, "cache file name inside the directory (empty to skip)")

	return cmd
}

func runFilterCommand(a *app, cmd *cobra.Command, dir string) error {
	opts := a.cfg.ToFilterOptions()
	if cmd.Flags().Changed("keep") {
		opts.KeepKeys, _ = cmd.Flags().GetStringSlice("keep")
	}
	if cmd.Flags().Changed("label-file") {
		opts.LabelFile, _ = cmd.Flags().GetString("label-file")
	}
	if cmd.Flags().Changed("cache-file") {
		opts.CacheFile, _ = cmd.Flags().GetString("cache-file")
	}
	if len(opts.KeepKeys) == 0 {
		return errors.New("no key classes to keep")
	}

	results, err := filter.Dir(dir, opts)
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.Missing {
			_, _ = fmt.Fprintf(out, "%s: not found, skipped\n", res.Path)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %d records, kept %d items, removed %d, dropped %d lines\n",
			res.Path, res.Records, res.Kept, res.Removed, res.Dropped)
	}
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}
	return nil
}
