package bootstrap

import (
	"fmt"
	"strings"

	"image-upscaler/internal/domain"
	"image-upscaler/internal/models"
)

// GetModels returns the built-in models, flagging those found in the models directory.
func (a *App) GetModels() []domain.ModelOption {
	return models.Catalog(a.installedModels())
}

// SetModel persists the selected model for subsequent upscales.
func (a *App) SetModel(modelID string) (domain.Settings, error) {
	id := strings.TrimSpace(modelID)
	if id == "" {
		return domain.Settings{}, fmt.Errorf("model id is required")
	}
	if !models.Known(id, a.installedModels()) {
		return domain.Settings{}, fmt.Errorf("unknown model id: %s", id)
	}

	a.mu.Lock()
	settings := a.Settings
	a.mu.Unlock()

	settings.Job.Model = id
	saved, err := a.SaveSettings(settings)
	if err != nil {
		return domain.Settings{}, err
	}
	a.logger.Info().Str("model", id).Msg("Model changed")
	return saved, nil
}

func (a *App) installedModels() []string {
	if a.checker == nil {
		return nil
	}

	a.mu.Lock()
	dir := a.Settings.ModelsDir
	a.mu.Unlock()
	if dir == "" {
		return nil
	}

	installed, err := a.checker.InstalledModels(dir)
	if err != nil {
		a.logger.Debug().Err(err).Str("dir", dir).Msg("Cannot list installed models")
		return nil
	}
	return installed
}
