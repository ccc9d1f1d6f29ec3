package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/kielabel/internal/kie"
	"github.com/spf13/cobra"
)

func newCatalogueCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Print the active field catalogue as YAML",
		Long: `Print the field catalogue used by assign: the label patterns of every
certificate field and the key classes of the values that follow them.

The output is a valid catalogue file and can be edited and passed back with
--catalogue.

Examples:
  kielabel catalogue > fields.yaml
  kielabel catalogue --catalogue fields.yaml --keys`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Assign.Catalogue
			if cmd.Flags().Changed("catalogue") {
				path, _ = cmd.Flags().GetString("catalogue")
			}

			cat, err := kie.LoadCatalogue(path)
			if err != nil {
				return err
			}
			// Reject catalogues whose patterns do not compile.
			if _, err := cat.Compile(); err != nil {
				return err
			}
			slog.Debug("catalogue loaded", "path", path, "name", cat.Name, "version", cat.Version, "fields", len(cat.Fields))

			out := cmd.OutOrStdout()
			if keysOnly, _ := cmd.Flags().GetBool("keys"); keysOnly {
				for _, k := range cat.Keys() {
					_, _ = fmt.Fprintln(out, k)
				}
				return nil
			}

			doc, err := cat.MarshalDocument()
			if err != nil {
				return fmt.Errorf("encode catalogue: %w", err)
			}
			_, err = out.Write(doc)
			return err
		},
	}

	cmd.Flags().String("catalogue", "", "catalogue YAML file (default: built-in certificate fields)")
	cmd.Flags().Bool("keys", false, "print only the distinct value key classes")

	return cmd
}
