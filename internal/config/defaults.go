package config

import (
	"os"
	"path/filepath"

	"image-upscaler/internal/domain"
)

const (
	DefaultModel      = "realesrgan-x4plus"
	DefaultScale      = 4
	DefaultSaveFormat = "png"
	DefaultLocale     = "en"
)

// AppDir returns the per-user directory holding settings and logs.
func AppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".image-upscaler")
}

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		Job: domain.JobConfiguration{
			Model:      DefaultModel,
			Scale:      DefaultScale,
			SaveFormat: DefaultSaveFormat,
			OutputPath: filepath.Join(homeDir, "Pictures", "Upscaled"),
		},
		ModelsDir: filepath.Join(AppDir(), "models"),
		Locale:    DefaultLocale,
	}
}

// Normalize trims user inputs and fills defaults for required fields.
func Normalize(settings domain.Settings) domain.Settings {
	job := &settings.Job
	job.Model = trim(job.Model)
	job.GPUID = trim(job.GPUID)
	job.SaveFormat = trim(job.SaveFormat)
	job.OutputPath = trim(job.OutputPath)
	if job.Model == "" {
		job.Model = DefaultModel
	}
	if job.Scale <= 0 {
		job.Scale = DefaultScale
	}
	if job.SaveFormat == "" {
		job.SaveFormat = DefaultSaveFormat
	}
	if job.Compression < 0 {
		job.Compression = 0
	}
	if job.TileSize < 0 {
		job.TileSize = 0
	}

	settings.ModelsDir = trim(settings.ModelsDir)
	settings.Locale = trim(settings.Locale)
	if settings.Locale == "" {
		settings.Locale = DefaultLocale
	}
	return settings
}
