// Package cli provides the headless command-line interface for the upscaler.
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"image-upscaler/internal/config"
	"image-upscaler/internal/domain"
	"image-upscaler/internal/logging"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	logger     *logging.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "upscale",
		Short: "Dispatch image upscale jobs to the upscale backend",
		Long: `upscale builds one backend request from saved settings and flags and
writes it as a JSON line on stdout, ready to be piped into the backend.

Settings are read from ~/.image-upscaler/settings.json unless --config
points at another JSON or YAML file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = logging.NewLogger(cmd.ErrOrStderr())
			logging.SetVerbose(opts.verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newDispatchCmd(opts))
	rootCmd.AddCommand(newModelsCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))

	return rootCmd
}

func (o *globalOptions) store() config.Store {
	path := o.configPath
	if path == "" {
		path = filepath.Join(config.AppDir(), "settings.json")
	}
	return config.NewFileStore(path)
}

func (o *globalOptions) loadSettings() (domain.Settings, error) {
	settings, err := o.store().Load()
	if err != nil {
		return domain.Settings{}, err
	}
	return config.Normalize(settings), nil
}

func (o *globalOptions) log() *logging.Logger {
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	return o.logger
}
