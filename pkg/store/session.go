package store

import (
	"sync"
	"time"
)

// ProcessingStatus is the lifecycle state of one submission's pipeline.
type ProcessingStatus string

const (
	StatusProcessing           ProcessingStatus = "PROCESSING"
	StatusCompleted            ProcessingStatus = "COMPLETED"
	StatusError                ProcessingStatus = "ERROR"
	StatusNoFragmentsExtracted ProcessingStatus = "NO_FRAGMENTS_EXTRACTED"
)

// IsTerminal reports whether no further status change can happen.
func (s ProcessingStatus) IsTerminal() bool {
	return s != StatusProcessing
}

// Fragment is one extracted text unit together with its embedding vector.
type Fragment struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"-"`
}

// Session tracks one submission's asynchronous processing job.
// The pipeline worker is the only writer; any number of pollers read
// concurrently. Results are attached and the terminal status set inside the
// same critical section, so a reader that observes a terminal status always
// sees the complete result set.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	status    ProcessingStatus
	fragments []Fragment
	groups    [][]string
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		status:    StatusProcessing,
	}
}

func (s *Session) Status() ProcessingStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus moves the session to the given status. A terminal status is
// final: later calls are ignored, so a slow writer can never regress an
// outcome a poller has already observed.
func (s *Session) SetStatus(status ProcessingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.IsTerminal() {
		return
	}
	s.status = status
}

// Complete attaches the pipeline's results and flips the status to
// StatusCompleted atomically.
func (s *Session) Complete(fragments []Fragment, groups [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.IsTerminal() {
		return
	}
	s.fragments = fragments
	s.groups = groups
	s.status = StatusCompleted
}

// Groups returns the similarity groups, or nil while still processing.
func (s *Session) Groups() [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups
}

func (s *Session) Fragments() []Fragment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fragments
}
