package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"image-upscaler/internal/diagnostics"
)

func newConfigCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect upscale settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := global.loadSettings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(settings); err != nil {
				return err
			}
			return enc.Close()
		},
	})

	return cmd
}

func newDoctorCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the backend binary, models directory and output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := global.loadSettings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			report := diagnostics.NewChecker().Run(settings)
			out := cmd.OutOrStdout()
			for _, item := range report.Items {
				fmt.Fprintf(out, "[%s] %s: %s\n", item.Status, item.Name, item.Message)
				if item.Hint != "" {
					fmt.Fprintf(out, "       %s\n", item.Hint)
				}
			}
			if report.HasFailures {
				return fmt.Errorf("diagnostics found problems")
			}
			return nil
		},
	}
}
