// Package notify delivers user-facing title/description notices.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"image-upscaler/internal/logging"
)

// Notifier shows one notice to the user.
type Notifier interface {
	Notify(title, description string)
}

// Func adapts a plain function to Notifier.
type Func func(title, description string)

// Notify calls f.
func (f Func) Notify(title, description string) {
	f(title, description)
}

// Desktop sends native OS notifications.
type Desktop struct {
	logger  *logging.Logger
	send    func(title, message string) error
	mu      sync.RWMutex
	enabled bool
}

// NewDesktop creates an enabled desktop notifier.
func NewDesktop(logger *logging.Logger) *Desktop {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Desktop{
		logger:  logger,
		send:    beeepNotify,
		enabled: true,
	}
}

// SetEnabled turns notifications on or off.
func (d *Desktop) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// IsEnabled reports whether notifications are sent.
func (d *Desktop) IsEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

// Notify shows the notice; delivery failures are logged, not returned.
func (d *Desktop) Notify(title, description string) {
	if !d.IsEnabled() {
		return
	}
	if err := d.send(title, description); err != nil {
		d.logger.Warn().Err(err).Str("title", title).Msg("Failed to send desktop notification")
	}
}

func beeepNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}
