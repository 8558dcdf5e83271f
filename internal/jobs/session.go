package jobs

import (
	"sync"

	"image-upscaler/internal/domain"
)

// Session is the process-wide progress and result state shared with the UI.
type Session struct {
	mu       sync.RWMutex
	progress domain.ProgressState
	results  domain.UpscaledResults
}

// NewSession creates a session with no pending job and no results.
func NewSession() *Session {
	return &Session{}
}

// SetProgress marks a job as pending with message.
func (s *Session) SetProgress(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = domain.ProgressState{Pending: true, Message: message}
}

// ClearProgress returns progress to the "no job" state.
func (s *Session) ClearProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = domain.ProgressState{}
}

// Progress returns the current progress state.
func (s *Session) Progress() domain.ProgressState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// ClearResults drops both upscaled result references.
func (s *Session) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = domain.UpscaledResults{}
}

// SetUpscaledImage records the output of a single or double upscale.
func (s *Session) SetUpscaledImage(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.ImagePath = path
}

// SetUpscaledFolder records the output folder of a batch upscale.
func (s *Session) SetUpscaledFolder(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.FolderPath = path
}

// Results returns the last upscaled outputs.
func (s *Session) Results() domain.UpscaledResults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}
