package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/kielabel/internal/fix"
	"github.com/spf13/cobra"
)

func newFixDifficultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-difficult <label-file>",
		Short: "Clear every difficult flag in a label file",
		Long: `Rewrite a label file with "difficult": false on every item. Lines that
do not parse are kept as they are.

Example:
  kielabel fix-difficult dataset/Label.txt`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := fix.ClearDifficult(args[0])
			if err != nil {
				return fmt.Errorf("fix-difficult failed: %w", err)
			}
			slog.Debug("difficult flags cleared", "path", args[0], "records", st.Records, "changed", st.Changed)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d difficult flags cleared, %d lines passed through\n",
				args[0], st.Records, st.Changed, st.PassThrough)
			return nil
		},
	}
}

func newFixPlaceholderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-placeholder <label-file>",
		Short: "Normalize dash placeholders to a single value",
		Long: `Rewrite a label file so that values printed as a dash-like glyph
(一 — － – -) under the configured key classes all read "-". Lines without a
TAB are dropped; lines that do not parse are kept as they are.

Examples:
  kielabel fix-placeholder dataset/Label.txt
  kielabel fix-placeholder dataset/Label.txt --keys vc_displace --replacement /`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.ToPlaceholderOptions()
			if cmd.Flags().Changed("keys") {
				opts.TargetKeys, _ = cmd.Flags().GetStringSlice("keys")
			}
			if cmd.Flags().Changed("glyphs") {
				opts.Glyphs, _ = cmd.Flags().GetStringSlice("glyphs")
			}
			if cmd.Flags().Changed("replacement") {
				opts.Replacement, _ = cmd.Flags().GetString("replacement")
			}

			st, err := fix.NewPlaceholder(opts).FixFile(args[0])
			if err != nil {
				return fmt.Errorf("fix-placeholder failed: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d placeholders normalized, %d lines dropped, %d passed through\n",
				args[0], st.Records, st.Changed, st.Dropped, st.PassThrough)
			return nil
		},
	}

	cmd.Flags().StringSlice("keys", nil, "key classes whose placeholders are normalized")
	cmd.Flags().StringSlice("glyphs", nil, "dash-like transcriptions treated as placeholders")
	cmd.Flags().String("replacement", "-", "replacement transcription")

	return cmd
}
