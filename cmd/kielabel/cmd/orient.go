package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/kielabel/internal/orient"
	"github.com/spf13/cobra"
)

func newOrientCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orient <directory>",
		Short: "Apply EXIF orientation to image pixels in place",
		Long: `Walk a directory for JPEG and PNG images, rotate their pixels according
to the EXIF orientation tag, and write them back without the tag, so that the
annotation tool and the trainer see the same picture.

Every image is printed as [OK] or [FAIL]; a failure does not stop the walk.

Examples:
  kielabel orient dataset/images
  kielabel orient dataset/images --quality 90 --recursive=false`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrientCommand(a, cmd, args[0])
		},
	}

	cmd.Flags().Int("quality", 95, "JPEG quality for re-encoded images (1-100)")
	cmd.Flags().BoolP("recursive", "r", true, "descend into subdirectories")
	cmd.Flags().StringSlice("ext", nil, "image extensions to process (default: .jpg, .jpeg, .png)")

	return cmd
}

func runOrientCommand(a *app, cmd *cobra.Command, root string) error {
	opts := a.cfg.ToOrientOptions()
	if cmd.Flags().Changed("quality") {
		opts.JPEGQuality, _ = cmd.Flags().GetInt("quality")
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive, _ = cmd.Flags().GetBool("recursive")
	}
	if cmd.Flags().Changed("ext") {
		opts.Extensions, _ = cmd.Flags().GetStringSlice("ext")
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		return fmt.Errorf("invalid quality: %d (must be between 1 and 100)", opts.JPEGQuality)
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	sum, err := orient.Dir(ctx, root, opts, func(res orient.FileResult) {
		if res.OK() {
			_, _ = fmt.Fprintf(out, "[OK] %s\n", res.Path)
		} else {
			_, _ = fmt.Fprintf(out, "[FAIL] %s: %v\n", res.Path, res.Err)
		}
	})
	_, _ = fmt.Fprintf(out, "Done: %d ok, %d failed\n", sum.OK, sum.Failed)
	if err != nil {
		return fmt.Errorf("orient failed: %w", err)
	}
	return nil
}
