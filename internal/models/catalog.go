// Package models lists the upscale models the backend ships with.
package models

import (
	"strings"

	"image-upscaler/internal/domain"
)

var catalog = []domain.ModelOption{
	{ID: "realesrgan-x4plus", Name: "Real-ESRGAN x4plus", Description: "General purpose photo upscaling."},
	{ID: "realesrgan-x4fast", Name: "Real-ESRGAN x4 Fast", Description: "Faster, lighter general model."},
	{ID: "remacri-4x", Name: "Remacri", Description: "Natural images with fine detail."},
	{ID: "ultramix-balanced-4x", Name: "Ultramix Balanced", Description: "Balanced sharpness and smoothness."},
	{ID: "ultrasharp-4x", Name: "Ultrasharp", Description: "Maximum sharpness."},
	{ID: "digital-art-4x", Name: "Digital Art", Description: "Illustrations, anime and digital art."},
	{ID: "high-fidelity-4x", Name: "High Fidelity", Description: "Preserves textures at the cost of speed."},
	{ID: "upscayl-standard-4x", Name: "Upscayl Standard", Description: "Default all-round model."},
	{ID: "upscayl-lite-4x", Name: "Upscayl Lite", Description: "Low memory, quick previews."},
}

// Catalog returns a copy of the built-in models, marking those in installed.
func Catalog(installed []string) []domain.ModelOption {
	have := make(map[string]bool, len(installed))
	for _, id := range installed {
		have[id] = true
	}

	out := make([]domain.ModelOption, len(catalog))
	copy(out, catalog)
	for i := range out {
		out[i].Installed = have[out[i].ID]
	}
	return out
}

// Lookup finds a built-in model by id.
func Lookup(id string) (domain.ModelOption, bool) {
	id = strings.TrimSpace(id)
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return domain.ModelOption{}, false
}

// Known reports whether id is a built-in model or one installed next to them.
func Known(id string, installed []string) bool {
	if _, ok := Lookup(id); ok {
		return true
	}
	for _, other := range installed {
		if other == id {
			return true
		}
	}
	return false
}
