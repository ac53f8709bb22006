package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/auditor/pkg/formatting"
)

// State is the read-only view of a session returned by the API.
// Slot text and the API key are never included.
type State struct {
	ID         uuid.UUID        `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	HasAPIKey  bool             `json:"has_api_key"`
	Report     *ReportState     `json:"report,omitempty"`
	Benchmarks *BenchmarksState `json:"benchmarks,omitempty"`
	Audit      *AuditState      `json:"audit,omitempty"`
}

type ReportState struct {
	Filename    string    `json:"filename"`
	PageCount   int       `json:"page_count"`
	Characters  int       `json:"characters"`
	ExtractedAt time.Time `json:"extracted_at"`
}

type BenchmarksState struct {
	Industry   string    `json:"industry"`
	Query      string    `json:"query"`
	Characters int       `json:"characters"`
	SearchedAt time.Time `json:"searched_at"`
}

type AuditState struct {
	Characters      int       `json:"characters"`
	ReportTruncated bool      `json:"report_truncated"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Snapshot returns the current State of the session.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		HasAPIKey: s.apiKey != "",
	}

	if r := s.report; r != nil {
		st.Report = &ReportState{
			Filename:    r.Filename,
			PageCount:   r.PageCount,
			Characters:  formatting.CharCount(r.Text),
			ExtractedAt: r.ExtractedAt,
		}
	}

	if b := s.benchmarks; b != nil {
		st.Benchmarks = &BenchmarksState{
			Industry:   b.Industry,
			Query:      b.Query,
			Characters: formatting.CharCount(b.Text),
			SearchedAt: b.SearchedAt,
		}
	}

	if a := s.audit; a != nil {
		st.Audit = &AuditState{
			Characters:      formatting.CharCount(a.Text),
			ReportTruncated: a.ReportTruncated,
			CompletedAt:     a.CompletedAt,
		}
	}

	return st
}
