package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/kielabel/internal/overlay"
	"github.com/spf13/cobra"
)

func newOverlayCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay <label-file>",
		Short: "Render key classes onto the images for review",
		Long: `Draw every item's polygon and key class onto its image and save the
result as <image>_kie.png, so that assignments can be reviewed by eye.

Image identifiers are resolved against --image-root, which defaults to the
parent of the label file's directory (the PPOCRLabel layout).

Examples:
  kielabel overlay dataset/Label.kie.txt
  kielabel overlay dataset/Label.kie.txt -o review --skip-unkeyed`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlayCommand(a, cmd, args[0])
		},
	}

	cmd.Flags().StringP("output-dir", "o", "overlays", "directory for rendered images")
	cmd.Flags().String("image-root", "", "directory image identifiers are relative to")
	cmd.Flags().String("box-color", "#FF0000", "polygon color (#rrggbb)")
	cmd.Flags().String("font-color", "#0000FF", "caption color (#rrggbb)")
	cmd.Flags().Int("thickness", 2, "polygon line thickness in pixels")
	cmd.Flags().Bool("skip-unkeyed", false, "do not draw items without a key class")

	return cmd
}

func runOverlayCommand(a *app, cmd *cobra.Command, labelPath string) error {
	cfg := *a.cfg
	if cmd.Flags().Changed("output-dir") {
		cfg.Overlay.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("image-root") {
		cfg.Overlay.ImageRoot, _ = cmd.Flags().GetString("image-root")
	}
	if cmd.Flags().Changed("box-color") {
		cfg.Overlay.BoxColor, _ = cmd.Flags().GetString("box-color")
	}
	if cmd.Flags().Changed("font-color") {
		cfg.Overlay.FontColor, _ = cmd.Flags().GetString("font-color")
	}
	if cmd.Flags().Changed("thickness") {
		cfg.Overlay.Thickness, _ = cmd.Flags().GetInt("thickness")
	}

	opts, err := cfg.ToOverlayOptions()
	if err != nil {
		return err
	}
	opts.SkipUnkeyed, _ = cmd.Flags().GetBool("skip-unkeyed")

	st, err := overlay.File(labelPath, opts)
	if err != nil {
		return fmt.Errorf("overlay failed: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d images to %s (%d failed, %d lines skipped)\n",
		st.Rendered, opts.OutputDir, st.Failed, st.Skipped)
	return nil
}
