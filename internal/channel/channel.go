// Package channel carries dispatch payloads across the process boundary to the
// upscale backend. Sends are one-way: no delivery or completion acknowledgement
// flows back through a Channel.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"image-upscaler/internal/domain"
)

// ErrNoRuntime is returned when the desktop runtime has not started yet.
var ErrNoRuntime = errors.New("runtime context is not initialized")

// Channel sends one command payload to the backend.
type Channel interface {
	Send(command domain.Command, payload any) error
}

// Envelope is the wire shape written by JSONLines.
type Envelope struct {
	Command domain.Command `json:"command"`
	Payload any            `json:"payload"`
}

// WailsEmitter relays payloads as runtime events named after the command.
type WailsEmitter struct {
	mu   sync.RWMutex
	ctx  context.Context
	emit func(ctx context.Context, name string, data ...interface{})
}

// NewWailsEmitter creates an emitter; call Attach once the runtime has started.
func NewWailsEmitter() *WailsEmitter {
	return &WailsEmitter{emit: wailsruntime.EventsEmit}
}

// Attach binds the runtime context used for emitting. A nil ctx detaches.
func (w *WailsEmitter) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// Send emits payload on the event named by command.
func (w *WailsEmitter) Send(command domain.Command, payload any) error {
	w.mu.RLock()
	ctx := w.ctx
	w.mu.RUnlock()

	if ctx == nil {
		return fmt.Errorf("send %s: %w", command, ErrNoRuntime)
	}
	w.emit(ctx, string(command), payload)
	return nil
}

// JSONLines writes each send as one JSON envelope per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLines creates a line-delimited JSON channel over w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

// Send encodes the command envelope to the underlying writer.
func (j *JSONLines) Send(command domain.Command, payload any) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.enc.Encode(Envelope{Command: command, Payload: payload}); err != nil {
		return fmt.Errorf("send %s: %w", command, err)
	}
	return nil
}

// Sent is one recorded send.
type Sent struct {
	Command domain.Command
	Payload any
}

// Recorder keeps every send in memory without relaying it.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

// Send records the command and payload.
func (r *Recorder) Send(command domain.Command, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Command: command, Payload: payload})
	return nil
}

// Sent returns a copy of all recorded sends.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}
