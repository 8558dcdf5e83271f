package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"image-upscaler/internal/channel"
	"image-upscaler/internal/dispatch"
	"image-upscaler/internal/domain"
	"image-upscaler/internal/i18n"
	"image-upscaler/internal/notify"
)

type dispatchOptions struct {
	sel     domain.InputSelection
	job     domain.JobConfiguration
	locale  string
	desktop bool
	dryRun  bool
}

func newDispatchCmd(global *globalOptions) *cobra.Command {
	opts := &dispatchOptions{}

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send one single, batch or double upscale request",
		Example: `  upscale dispatch --image ./photo.png --scale 4
  upscale dispatch --folder ./album --batch --model remacri-4x | upscayl-backend
  upscale dispatch --image ./photo.png --double --gpu-id 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sel.ImagePath, "image", "", "image to upscale")
	f.StringVar(&opts.sel.BatchFolderPath, "folder", "", "folder to upscale in batch mode")
	f.BoolVar(&opts.sel.BatchMode, "batch", false, "upscale every image in --folder")
	f.BoolVar(&opts.sel.DoubleUpscale, "double", false, "run the upscale twice on --image (wins over --batch)")
	f.StringVar(&opts.job.Model, "model", "", "model id")
	f.IntVar(&opts.job.Scale, "scale", 0, "scale factor")
	f.StringVar(&opts.job.GPUID, "gpu-id", "", "GPU id; empty lets the backend choose")
	f.StringVar(&opts.job.SaveFormat, "format", "", "output format (png, jpg, webp)")
	f.IntVar(&opts.job.Compression, "compression", 0, "output compression level")
	f.IntVar(&opts.job.CustomWidth, "custom-width", 0, "output width override in pixels")
	f.BoolVar(&opts.job.UseCustomWidth, "use-custom-width", false, "enable --custom-width")
	f.IntVar(&opts.job.TileSize, "tile-size", 0, "backend tile size; 0 is automatic")
	f.BoolVar(&opts.job.Overwrite, "overwrite", false, "overwrite an existing output (single image only)")
	f.StringVar(&opts.job.OutputPath, "output", "", "output directory")
	f.BoolVar(&opts.job.NoImageProcessing, "no-image-processing", false, "skip post-processing")
	f.StringVar(&opts.locale, "locale", "", "message locale (en, de)")
	f.BoolVar(&opts.desktop, "notify", false, "also show errors as desktop notifications")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the request indented instead of as a JSON line")

	return cmd
}

func runDispatch(cmd *cobra.Command, global *globalOptions, opts *dispatchOptions) error {
	settings, err := global.loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	cfg := mergeJobFlags(cmd, settings.Job, opts.job)
	sel := opts.sel
	if !cmd.Flags().Changed("batch") {
		sel.BatchMode = settings.BatchMode
	}

	locale := settings.Locale
	if opts.locale != "" {
		locale = opts.locale
	}
	translator, err := i18n.NewTranslator(locale)
	if err != nil {
		return err
	}

	logger := global.log()
	var desktop *notify.Desktop
	if opts.desktop {
		desktop = notify.NewDesktop(logger)
	}
	notifier := notify.Func(func(title, description string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", title, description)
		if desktop != nil {
			desktop.Notify(title, description)
		}
	})

	var ch channel.Channel = channel.NewJSONLines(cmd.OutOrStdout())
	recorder := &channel.Recorder{}
	if opts.dryRun {
		ch = recorder
	}

	ctrl := dispatch.NewController(dispatch.Deps{
		Channel:    ch,
		Notifier:   notifier,
		Translator: translator,
		Logger:     logger,
	})

	job, err := ctrl.Dispatch(cfg, sel)
	if err != nil {
		return err
	}
	logger.Info().Str("job", job.ID).Str("command", string(job.Command)).Msg("Dispatched")

	if opts.dryRun {
		return printRecorded(cmd.OutOrStdout(), recorder.Sent())
	}
	return nil
}

func printRecorded(w io.Writer, sent []channel.Sent) error {
	for _, s := range sent {
		data, err := json.MarshalIndent(s.Payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", s.Command, err)
		}
		fmt.Fprintf(w, "%s\n%s\n", s.Command, data)
	}
	return nil
}

// mergeJobFlags overlays only the flags the user set onto saved settings.
func mergeJobFlags(cmd *cobra.Command, saved, flags domain.JobConfiguration) domain.JobConfiguration {
	changed := cmd.Flags().Changed
	out := saved
	if changed("model") {
		out.Model = flags.Model
	}
	if changed("scale") {
		out.Scale = flags.Scale
	}
	if changed("gpu-id") {
		out.GPUID = flags.GPUID
	}
	if changed("format") {
		out.SaveFormat = flags.SaveFormat
	}
	if changed("compression") {
		out.Compression = flags.Compression
	}
	if changed("custom-width") {
		out.CustomWidth = flags.CustomWidth
	}
	if changed("use-custom-width") {
		out.UseCustomWidth = flags.UseCustomWidth
	}
	if changed("tile-size") {
		out.TileSize = flags.TileSize
	}
	if changed("overwrite") {
		out.Overwrite = flags.Overwrite
	}
	if changed("output") {
		out.OutputPath = flags.OutputPath
	}
	if changed("no-image-processing") {
		out.NoImageProcessing = flags.NoImageProcessing
	}
	return out
}
