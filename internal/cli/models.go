package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"image-upscaler/internal/diagnostics"
	"image-upscaler/internal/models"
)

func newModelsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List upscale models and whether they are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := global.loadSettings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			installed, err := diagnostics.NewChecker().InstalledModels(settings.ModelsDir)
			if err != nil {
				global.log().Debug().Err(err).Str("dir", settings.ModelsDir).Msg("Cannot list installed models")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tINSTALLED\tSELECTED")
			for _, m := range models.Catalog(installed) {
				selected := ""
				if m.ID == settings.Job.Model {
					selected = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", m.ID, m.Name, m.Installed, selected)
			}
			return w.Flush()
		},
	}
}
