package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"image-upscaler/internal/channel"
	"image-upscaler/internal/config"
	"image-upscaler/internal/diagnostics"
	"image-upscaler/internal/dispatch"
	"image-upscaler/internal/domain"
	"image-upscaler/internal/i18n"
	"image-upscaler/internal/jobs"
	"image-upscaler/internal/logging"
	"image-upscaler/internal/notify"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	eventToast = "toast"
	eventState = "upscale:state"
)

// Backend completion events the app listens for.
const (
	eventUpscaleDone       = "upscayl-done"
	eventFolderUpscaleDone = "folder-upscayl-done"
	eventDoubleUpscaleDone = "double-upscayl-done"
	eventUpscaleError      = "upscayl-error"
)

var imageDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Images",
		Pattern:     "*.png;*.jpg;*.jpeg;*.webp;*.jfif",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// App wires settings, the dispatch controller and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Controller  *dispatch.Controller
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	translator  *i18n.Translator
	emitter     *channel.WailsEmitter
	events      *jobs.EventBus
	logger      *logging.Logger

	mu         sync.Mutex
	selection  domain.InputSelection
	runtimeCtx context.Context
	listeners  []func()
}

// State is the snapshot pushed to the frontend after every transition.
type State struct {
	Job       domain.Job             `json:"job"`
	Progress  domain.ProgressState   `json:"progress"`
	Results   domain.UpscaledResults `json:"results"`
	Selection domain.InputSelection  `json:"selection"`
}

// Toast is a user-facing notice shown by the frontend.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	appDir := config.AppDir()
	logger, err := logging.NewWithFile(os.Stderr, filepath.Join(appDir, "logs"))
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(appDir, "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	translator, err := i18n.NewTranslator(settings.Locale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	checker := diagnostics.NewChecker()
	app := &App{
		Settings:    settings,
		Store:       store,
		Diagnostics: checker.Run(settings),
		assets:      assets,
		checker:     checker,
		translator:  translator,
		emitter:     channel.NewWailsEmitter(),
		events:      jobs.NewEventBus(1000),
		logger:      logger,
		selection:   domain.InputSelection{BatchMode: settings.BatchMode},
	}
	app.Controller = dispatch.NewController(dispatch.Deps{
		Channel:    app.emitter,
		Notifier:   notify.Func(app.toast),
		Translator: translator,
		Session:    jobs.NewSession(),
		Jobs:       jobs.NewManager(),
		Events:     app.events,
		Logger:     logger,
	})
	return app, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Image Upscaler",
		Width:       1180,
		Height:      780,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup stores the runtime context and subscribes to backend completion events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()
	a.emitter.Attach(ctx)

	done := func(optionalData ...interface{}) {
		a.HandleBackendDone(firstString(optionalData))
	}
	failed := func(optionalData ...interface{}) {
		a.HandleBackendError(firstString(optionalData))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners,
		wailsruntime.EventsOn(ctx, eventUpscaleDone, done),
		wailsruntime.EventsOn(ctx, eventFolderUpscaleDone, done),
		wailsruntime.EventsOn(ctx, eventDoubleUpscaleDone, done),
		wailsruntime.EventsOn(ctx, eventUpscaleError, failed),
	)
	a.logger.Info().Msg("Runtime started")
}

// Shutdown detaches from the runtime and closes the log file.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	listeners := a.listeners
	a.listeners = nil
	a.runtimeCtx = nil
	a.mu.Unlock()

	for _, cancel := range listeners {
		cancel()
	}
	a.emitter.Attach(nil)
	_ = a.logger.Close()
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	return a.Diagnostics, nil
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics and locale.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := config.Normalize(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	a.selection.BatchMode = normalized.BatchMode
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	if a.translator != nil {
		a.translator.SetLocale(normalized.Locale)
	}
	return normalized, nil
}

// GetSelection returns the current input selection.
func (a *App) GetSelection() domain.InputSelection {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selection
}

// SetImagePath records the image to upscale.
func (a *App) SetImagePath(path string) domain.InputSelection {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selection.ImagePath = strings.TrimSpace(path)
	return a.selection
}

// SetBatchFolderPath records the folder to upscale in batch mode.
func (a *App) SetBatchFolderPath(path string) domain.InputSelection {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selection.BatchFolderPath = strings.TrimSpace(path)
	return a.selection
}

// SetBatchMode toggles folder mode and persists it.
func (a *App) SetBatchMode(enabled bool) (domain.InputSelection, error) {
	a.mu.Lock()
	settings := a.Settings
	a.mu.Unlock()

	settings.BatchMode = enabled
	if _, err := a.SaveSettings(settings); err != nil {
		return domain.InputSelection{}, err
	}
	return a.GetSelection(), nil
}

// SetDoubleUpscale toggles double-pass mode for the next dispatch.
func (a *App) SetDoubleUpscale(enabled bool) domain.InputSelection {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selection.DoubleUpscale = enabled
	return a.selection
}

// PickImage opens a native file dialog and records the chosen image.
func (a *App) PickImage() (domain.InputSelection, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return domain.InputSelection{}, err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select image",
		Filters: imageDialogFilter,
	})
	if err != nil {
		return domain.InputSelection{}, err
	}
	if strings.TrimSpace(path) == "" {
		return a.GetSelection(), nil
	}

	a.logger.Info().Str("path", path).Msg("Selected image")
	return a.SetImagePath(path), nil
}

// PickBatchFolder opens a native directory picker and records the batch folder.
func (a *App) PickBatchFolder() (domain.InputSelection, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return domain.InputSelection{}, err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select folder to upscale",
	})
	if err != nil {
		return domain.InputSelection{}, err
	}
	if strings.TrimSpace(path) == "" {
		return a.GetSelection(), nil
	}

	a.logger.Info().Str("path", path).Msg("Selected batch folder")
	return a.SetBatchFolderPath(path), nil
}

// PickOutputDirectory opens a directory picker and saves it as the output path.
func (a *App) PickOutputDirectory() (domain.Settings, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return domain.Settings{}, err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return domain.Settings{}, err
	}

	a.mu.Lock()
	settings := a.Settings
	a.mu.Unlock()
	if strings.TrimSpace(path) == "" {
		return settings, nil
	}

	settings.Job.OutputPath = path
	return a.SaveSettings(settings)
}

// OpenOutputFolder opens the given path (or configured output dir) in file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.Job.OutputPath
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// Upscale dispatches one job for the current selection using persisted settings.
// A missing selection is reported to the user as a toast, not as an error.
func (a *App) Upscale() (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	a.mu.Lock()
	a.Settings = settings
	sel := a.selection
	a.mu.Unlock()

	job, err := a.Controller.Dispatch(settings.Job, sel)
	switch {
	case errors.Is(err, dispatch.ErrNoInputSelected):
		a.emitState()
		return job, nil
	case err != nil:
		a.emitState()
		return job, err
	}

	if job.Mode == domain.ModeBatch {
		a.mu.Lock()
		a.selection.DoubleUpscale = false
		a.mu.Unlock()
	}
	a.emitState()
	return job, nil
}

// HandleBackendDone records a finished upscale and its output path.
func (a *App) HandleBackendDone(outputPath string) {
	if err := a.Controller.Finish("", domain.JobStatusDone, outputPath); err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring completion without an active job")
		return
	}
	a.emitState()
}

// HandleBackendError records a failed upscale and shows the backend message.
func (a *App) HandleBackendError(message string) {
	if err := a.Controller.Finish("", domain.JobStatusFailed, ""); err != nil {
		a.logger.Warn().Err(err).Msg("Ignoring failure without an active job")
		return
	}
	if message != "" {
		a.logger.Error().Str("backend", message).Msg("Upscale failed")
	}
	a.emitState()
}

// CurrentState returns job, progress, results and selection in one snapshot.
func (a *App) CurrentState() State {
	return State{
		Job:       a.Controller.Current(),
		Progress:  a.Controller.Progress(),
		Results:   a.Controller.Results(),
		Selection: a.GetSelection(),
	}
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// Logs returns the retained diagnostic log lines for the log panel.
func (a *App) Logs() []string {
	return a.events.Messages()
}

// toast forwards a notice to the frontend and the log.
func (a *App) toast(title, description string) {
	a.logger.Warn().Str("title", title).Msg(description)

	ctx, err := a.runtimeContext()
	if err != nil {
		return
	}
	wailsruntime.EventsEmit(ctx, eventToast, Toast{Title: title, Description: description})
}

// emitState pushes the current state snapshot when the runtime is attached.
func (a *App) emitState() {
	ctx, err := a.runtimeContext()
	if err != nil {
		return
	}
	wailsruntime.EventsEmit(ctx, eventState, a.CurrentState())
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, channel.ErrNoRuntime
	}
	return a.runtimeCtx, nil
}

func firstString(data []interface{}) string {
	if len(data) == 0 {
		return ""
	}
	s, _ := data[0].(string)
	return s
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
