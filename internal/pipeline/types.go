package pipeline

// ExtractCommand carries an uploaded document.
type ExtractCommand struct {
	Data     []byte
	Filename string
}

// ExtractResult reports the stored report text.
type ExtractResult struct {
	Filename         string `json:"filename"`
	PageCount        int    `json:"page_count"`
	Characters       int    `json:"characters"`
	Preview          string `json:"preview"`
	PreviewTruncated bool   `json:"preview_truncated"`
}

// SearchResult carries the benchmark text gathered for an industry.
type SearchResult struct {
	Industry   string `json:"industry"`
	Query      string `json:"query"`
	Benchmarks string `json:"benchmarks"`
}

// AuditResult carries the generated audit. OmittedCharacters counts the
// report text left out of the prompt.
type AuditResult struct {
	Audit             string `json:"audit"`
	ReportTruncated   bool   `json:"report_truncated"`
	OmittedCharacters int    `json:"omitted_characters"`
	Download          string `json:"download"`
}

// ChatResult carries the answer to a single question.
type ChatResult struct {
	Answer            string `json:"answer"`
	ReportTruncated   bool   `json:"report_truncated"`
	OmittedCharacters int    `json:"omitted_characters"`
}

// SearchRequest is the body of the search endpoint.
type SearchRequest struct {
	Industry string `json:"industry"`
}

// ChatRequest is the body of the chat endpoint.
type ChatRequest struct {
	Question string `json:"question"`
}
