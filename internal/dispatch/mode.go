// Package dispatch turns the current upscale settings and input selection into
// exactly one backend request.
package dispatch

import (
	"errors"

	"image-upscaler/internal/domain"
)

// ErrNoInputSelected is returned when neither an image nor a folder is selected.
var ErrNoInputSelected = errors.New("no image or folder selected")

// SelectMode picks the job kind. Double wins over batch, batch over single.
func SelectMode(doubleUpscale, batchMode bool) domain.Mode {
	switch {
	case doubleUpscale:
		return domain.ModeDouble
	case batchMode:
		return domain.ModeBatch
	default:
		return domain.ModeSingle
	}
}

// CheckInput rejects a selection with no image and no folder.
// Path existence and file type are left to the backend.
func CheckInput(sel domain.InputSelection) error {
	if !sel.HasInput() {
		return ErrNoInputSelected
	}
	return nil
}
