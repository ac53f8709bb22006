package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report is the text extracted from the uploaded document.
type Report struct {
	Text        string
	Filename    string
	PageCount   int
	ExtractedAt time.Time
}

// Benchmarks is the search result text gathered for an industry.
type Benchmarks struct {
	Industry   string
	Query      string
	Text       string
	SearchedAt time.Time
}

// Audit is the most recent model-generated audit.
type Audit struct {
	Text            string
	ReportTruncated bool
	CompletedAt     time.Time
}

// Session holds the slots produced by the pipeline actions for one user.
// Slots are absent until their producing action succeeds and are replaced
// wholesale on every later success.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	// sem serializes actions; mu guards the fields below.
	sem chan struct{}
	mu  sync.RWMutex

	apiKey     string
	report     *Report
	benchmarks *Benchmarks
	audit      *Audit
}

func newSession() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		sem:       make(chan struct{}, 1),
	}
}

// Run executes fn while holding the session's action lock. Waiting for the
// lock is abandoned when ctx is cancelled.
func (s *Session) Run(ctx context.Context, fn func() error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()

	return fn()
}

// APIKey returns the inference API key configured for the session.
func (s *Session) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

// SetAPIKey replaces the session's inference API key. An empty key clears it.
func (s *Session) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// Report returns a copy of the report slot.
func (s *Session) Report() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return Report{}, false
	}
	return *s.report, true
}

func (s *Session) SetReport(r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &r
}

// Benchmarks returns a copy of the benchmarks slot.
func (s *Session) Benchmarks() (Benchmarks, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.benchmarks == nil {
		return Benchmarks{}, false
	}
	return *s.benchmarks, true
}

func (s *Session) SetBenchmarks(b Benchmarks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benchmarks = &b
}

// Audit returns a copy of the audit slot.
func (s *Session) Audit() (Audit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.audit == nil {
		return Audit{}, false
	}
	return *s.audit, true
}

func (s *Session) SetAudit(a Audit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = &a
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = ""
	s.report = nil
	s.benchmarks = nil
	s.audit = nil
}
