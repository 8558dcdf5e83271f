package dispatch

import (
	"strconv"

	"image-upscaler/internal/domain"
)

// Payload is one of SinglePayload, BatchPayload or DoublePayload.
type Payload interface {
	Command() domain.Command
	isPayload()
}

// Options holds the configuration fields shared by every payload.
// Nil pointers are omitted so the backend sees "not specified" rather than "" or "0".
type Options struct {
	OutputPath        string  `json:"outputPath"`
	Model             string  `json:"model"`
	GPUID             *string `json:"gpuId,omitempty"`
	SaveImageAs       string  `json:"saveImageAs"`
	Scale             int     `json:"scale"`
	NoImageProcessing bool    `json:"noImageProcessing"`
	Compression       string  `json:"compression"`
	CustomWidth       *string `json:"customWidth,omitempty"`
	UseCustomWidth    bool    `json:"useCustomWidth"`
	TileSize          int     `json:"tileSize"`
}

// SinglePayload upscales one image and may overwrite an existing output.
type SinglePayload struct {
	ImagePath string `json:"imagePath"`
	Options
	Overwrite bool `json:"overwrite"`
}

// BatchPayload upscales every image in a folder.
type BatchPayload struct {
	BatchFolderPath string `json:"batchFolderPath"`
	Options
}

// DoublePayload upscales one image twice in sequence.
type DoublePayload struct {
	ImagePath string `json:"imagePath"`
	Options
}

func (SinglePayload) Command() domain.Command { return domain.CommandUpscale }
func (BatchPayload) Command() domain.Command  { return domain.CommandFolderUpscale }
func (DoublePayload) Command() domain.Command { return domain.CommandDoubleUpscale }

func (SinglePayload) isPayload() {}
func (BatchPayload) isPayload()  {}
func (DoublePayload) isPayload() {}

// BuildPayload maps mode, configuration and selection to the matching payload.
func BuildPayload(mode domain.Mode, cfg domain.JobConfiguration, sel domain.InputSelection) Payload {
	opts := buildOptions(cfg)

	switch mode {
	case domain.ModeDouble:
		return DoublePayload{ImagePath: sel.ImagePath, Options: opts}
	case domain.ModeBatch:
		return BatchPayload{BatchFolderPath: sel.BatchFolderPath, Options: opts}
	default:
		return SinglePayload{ImagePath: sel.ImagePath, Options: opts, Overwrite: cfg.Overwrite}
	}
}

func buildOptions(cfg domain.JobConfiguration) Options {
	return Options{
		OutputPath:        cfg.OutputPath,
		Model:             cfg.Model,
		GPUID:             optionalString(cfg.GPUID),
		SaveImageAs:       cfg.SaveFormat,
		Scale:             cfg.Scale,
		NoImageProcessing: cfg.NoImageProcessing,
		Compression:       strconv.Itoa(cfg.Compression),
		CustomWidth:       customWidth(cfg),
		UseCustomWidth:    cfg.UseCustomWidth,
		TileSize:          cfg.TileSize,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// customWidth is only sent when the override is enabled with a positive width.
func customWidth(cfg domain.JobConfiguration) *string {
	if !cfg.UseCustomWidth || cfg.CustomWidth <= 0 {
		return nil
	}
	return optionalString(strconv.Itoa(cfg.CustomWidth))
}
