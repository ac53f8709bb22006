package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/auditor/internal/pipeline"
	"github.com/JaimeStill/auditor/internal/sessions"
)

type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) Pages(ctx context.Context, data []byte) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type fakeSearch struct {
	results []string
	err     error
	queries []string
}

func (f *fakeSearch) Search(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r, nil
}

type fakeInference struct {
	text    string
	err     error
	prompts []string
	keys    []string
}

func (f *fakeInference) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeInference) Model() string { return "fake-model" }

type fixture struct {
	sys       pipeline.System
	store     *sessions.Store
	extractor *fakeExtractor
	search    *fakeSearch
	inference *fakeInference
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scfg := sessions.Config{}
	if err := scfg.Finalize(nil); err != nil {
		t.Fatalf("finalize session config: %v", err)
	}

	pcfg := pipeline.Config{}
	if err := pcfg.Finalize(nil); err != nil {
		t.Fatalf("finalize pipeline config: %v", err)
	}

	f := &fixture{
		store:     sessions.New(&scfg, discardLogger()),
		extractor: &fakeExtractor{pages: []string{"Emissions fell 5% in 2024.", "Target: net-zero by 2030."}},
		search:    &fakeSearch{results: []string{"Airlines target SAF blends."}},
		inference: &fakeInference{text: "Audit: on track."},
	}

	f.sys = pipeline.New(&pcfg, f.store, pipeline.Providers{
		Extractor: f.extractor,
		Search:    f.search,
		Inference: f.inference,
	}, discardLogger())

	return f
}

func TestExtract(t *testing.T) {
	t.Run("concatenates pages without separator", func(t *testing.T) {
		f := newFixture(t)
		sess := f.store.Create()

		result, err := f.sys.Extract(context.Background(), sess, pipeline.ExtractCommand{Data: []byte("%PDF"), Filename: "esg.pdf"})
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}

		report, ok := sess.Report()
		if !ok {
			t.Fatal("report slot not written")
		}
		want := "Emissions fell 5% in 2024.Target: net-zero by 2030."
		if report.Text != want {
			t.Errorf("report text = %q, want %q", report.Text, want)
		}
		if result.Preview != want || result.PreviewTruncated {
			t.Errorf("preview = %q truncated=%v", result.Preview, result.PreviewTruncated)
		}
		if result.PageCount != 2 || report.Filename != "esg.pdf" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("preview is first 1000 characters", func(t *testing.T) {
		f := newFixture(t)
		f.extractor.pages = []string{strings.Repeat("ü", 700), strings.Repeat("b", 700)}
		sess := f.store.Create()

		result, err := f.sys.Extract(context.Background(), sess, pipeline.ExtractCommand{Data: []byte("%PDF")})
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}

		report, _ := sess.Report()
		if want := string([]rune(report.Text)[:1000]); result.Preview != want {
			t.Error("preview does not match the first 1000 characters of the report")
		}
		if !result.PreviewTruncated || result.Characters != 1400 {
			t.Errorf("truncated=%v characters=%d", result.PreviewTruncated, result.Characters)
		}
	})

	t.Run("failure keeps previous report", func(t *testing.T) {
		f := newFixture(t)
		sess := f.store.Create()
		sess.SetReport(sessions.Report{Text: "previous"})
		f.extractor.err = errors.New("malformed xref")

		_, err := f.sys.Extract(context.Background(), sess, pipeline.ExtractCommand{Data: []byte("junk")})
		if !errors.Is(err, pipeline.ErrExtractionFailed) {
			t.Fatalf("expected ErrExtractionFailed, got %v", err)
		}

		report, _ := sess.Report()
		if report.Text != "previous" {
			t.Errorf("report overwritten on failure: %q", report.Text)
		}
	})

	t.Run("empty upload", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sys.Extract(context.Background(), f.store.Create(), pipeline.ExtractCommand{})
		if !errors.Is(err, pipeline.ErrInvalidFile) {
			t.Fatalf("expected ErrInvalidFile, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("empty industry writes nothing", func(t *testing.T) {
		for _, industry := range []string{"", "   ", "\t\n"} {
			f := newFixture(t)
			sess := f.store.Create()

			_, err := f.sys.Search(context.Background(), sess, industry)
			if !errors.Is(err, pipeline.ErrEmptyIndustry) {
				t.Fatalf("industry %q: expected ErrEmptyIndustry, got %v", industry, err)
			}

			c := pipeline.Classify(err)
			if c.Severity != pipeline.SeverityWarning || c.Message != "Please enter an industry name." {
				t.Errorf("classification = %+v", c)
			}
			if _, ok := sess.Benchmarks(); ok {
				t.Error("benchmarks written for empty industry")
			}
			if len(f.search.queries) != 0 {
				t.Error("search provider called for empty industry")
			}
		}
	})

	t.Run("uses query template", func(t *testing.T) {
		f := newFixture(t)
		sess := f.store.Create()

		result, err := f.sys.Search(context.Background(), sess, "  Aviation ")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}

		want := "Evolution of sustainability standards, recent ESG benchmarks, and upcoming 2026-2030 targets for Aviation"
		if f.search.queries[0] != want || result.Query != want {
			t.Errorf("query = %q", f.search.queries[0])
		}
	})

	t.Run("rerun overwrites", func(t *testing.T) {
		f := newFixture(t)
		f.search.results = []string{"first result", "second result"}
		sess := f.store.Create()

		for range 2 {
			if _, err := f.sys.Search(context.Background(), sess, "Banking"); err != nil {
				t.Fatalf("Search: %v", err)
			}
		}

		b, _ := sess.Benchmarks()
		if b.Text != "second result" {
			t.Errorf("benchmarks = %q, want overwrite", b.Text)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(t)
		f.search.err = errors.New("status 429")
		sess := f.store.Create()

		_, err := f.sys.Search(context.Background(), sess, "Banking")
		if !errors.Is(err, pipeline.ErrSearchFailed) {
			t.Fatalf("expected ErrSearchFailed, got %v", err)
		}
		if _, ok := sess.Benchmarks(); ok {
			t.Error("benchmarks written on failure")
		}
	})
}

func readySession(f *fixture, report string) *sessions.Session {
	sess := f.store.Create()
	sess.SetAPIKey("key-1")
	sess.SetReport(sessions.Report{Text: report})
	sess.SetBenchmarks(sessions.Benchmarks{Industry: "Aviation", Text: "Benchmarks text."})
	return sess
}

func TestAudit(t *testing.T) {
	t.Run("missing prerequisites", func(t *testing.T) {
		tests := []struct {
			name       string
			report     bool
			benchmarks bool
		}{
			{"neither", false, false},
			{"report only", true, false},
			{"benchmarks only", false, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				sess := f.store.Create()
				sess.SetAPIKey("key-1")
				if tt.report {
					sess.SetReport(sessions.Report{Text: "report"})
				}
				if tt.benchmarks {
					sess.SetBenchmarks(sessions.Benchmarks{Text: "benchmarks"})
				}

				_, err := f.sys.Audit(context.Background(), sess)
				if !errors.Is(err, pipeline.ErrMissingPrerequisites) {
					t.Fatalf("expected ErrMissingPrerequisites, got %v", err)
				}
				if msg := pipeline.Classify(err).Message; msg != "Error: Please complete Tab 1 and Tab 2 first!" {
					t.Errorf("message = %q", msg)
				}
				if _, ok := sess.Audit(); ok {
					t.Error("audit written without prerequisites")
				}
				if len(f.inference.prompts) != 0 {
					t.Error("inference called without prerequisites")
				}
			})
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		f := newFixture(t)
		sess := readySession(f, "report")
		sess.SetAPIKey("")

		_, err := f.sys.Audit(context.Background(), sess)
		if !errors.Is(err, pipeline.ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
		if len(f.inference.prompts) != 0 {
			t.Error("inference called without key")
		}
	})

	t.Run("truncates report and keeps benchmarks", func(t *testing.T) {
		f := newFixture(t)
		report := strings.Repeat("r", 30000) + "TAIL"
		sess := readySession(f, report)
		long := strings.Repeat("b", 60000)
		sess.SetBenchmarks(sessions.Benchmarks{Industry: "Aviation", Text: long})

		result, err := f.sys.Audit(context.Background(), sess)
		if err != nil {
			t.Fatalf("Audit: %v", err)
		}

		prompt := f.inference.prompts[0]
		if strings.Contains(prompt, "TAIL") {
			t.Error("prompt contains report text past 30000 characters")
		}
		if !strings.Contains(prompt, strings.Repeat("r", 30000)) {
			t.Error("prompt missing the first 30000 report characters")
		}
		if !strings.Contains(prompt, long) {
			t.Error("benchmarks truncated in prompt")
		}
		if !strings.Contains(prompt, "historical data trends for Aviation") {
			t.Error("prompt does not name the industry")
		}
		if !result.ReportTruncated || result.OmittedCharacters != 4 {
			t.Errorf("truncated=%v omitted=%d", result.ReportTruncated, result.OmittedCharacters)
		}
		if f.inference.keys[0] != "key-1" {
			t.Errorf("key = %q", f.inference.keys[0])
		}
	})

	t.Run("stores completion for download", func(t *testing.T) {
		f := newFixture(t)
		sess := readySession(f, "short report")

		if _, err := f.sys.Report(sess); !errors.Is(err, pipeline.ErrNoAudit) {
			t.Fatalf("expected ErrNoAudit before audit, got %v", err)
		}

		result, err := f.sys.Audit(context.Background(), sess)
		if err != nil {
			t.Fatalf("Audit: %v", err)
		}
		if result.Audit != "Audit: on track." || result.ReportTruncated {
			t.Errorf("result = %+v", result)
		}

		text, err := f.sys.Report(sess)
		if err != nil || text != "Audit: on track." {
			t.Errorf("Report = %q, %v", text, err)
		}
	})

	t.Run("provider failure keeps previous audit", func(t *testing.T) {
		f := newFixture(t)
		sess := readySession(f, "report")
		sess.SetAudit(sessions.Audit{Text: "older audit"})
		f.inference.err = errors.New("status 503")

		_, err := f.sys.Audit(context.Background(), sess)
		if !errors.Is(err, pipeline.ErrInferenceFailed) {
			t.Fatalf("expected ErrInferenceFailed, got %v", err)
		}

		a, _ := sess.Audit()
		if a.Text != "older audit" {
			t.Errorf("audit overwritten on failure: %q", a.Text)
		}
	})
}

func TestChat(t *testing.T) {
	t.Run("missing report makes no call", func(t *testing.T) {
		f := newFixture(t)
		sess := f.store.Create()
		sess.SetAPIKey("key-1")

		_, err := f.sys.Chat(context.Background(), sess, "What are the 2030 targets?")
		if !errors.Is(err, pipeline.ErrMissingReport) {
			t.Fatalf("expected ErrMissingReport, got %v", err)
		}
		if msg := pipeline.Classify(err).Message; msg != "Please upload the PDF in Tab 1 first!" {
			t.Errorf("message = %q", msg)
		}
		if len(f.inference.prompts) != 0 {
			t.Error("inference called without a report")
		}
	})

	t.Run("missing report is reported before missing key", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sys.Chat(context.Background(), f.store.Create(), "question")
		if !errors.Is(err, pipeline.ErrMissingReport) {
			t.Fatalf("expected ErrMissingReport, got %v", err)
		}
	})

	t.Run("empty question", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sys.Chat(context.Background(), readySession(f, "report"), "  ")
		if !errors.Is(err, pipeline.ErrEmptyQuestion) {
			t.Fatalf("expected ErrEmptyQuestion, got %v", err)
		}
	})

	t.Run("truncates report and keeps literal question", func(t *testing.T) {
		f := newFixture(t)
		f.inference.text = "Net-zero by 2030."
		sess := readySession(f, strings.Repeat("x", 50000)+"OVERFLOW")
		question := "  What does the report say about Scope 3 & \"2030\"?  "

		result, err := f.sys.Chat(context.Background(), sess, question)
		if err != nil {
			t.Fatalf("Chat: %v", err)
		}

		prompt := f.inference.prompts[0]
		if strings.Contains(prompt, "OVERFLOW") {
			t.Error("prompt contains report text past 50000 characters")
		}
		if !strings.HasSuffix(prompt, "Question: "+question) {
			t.Error("prompt does not end with the literal question")
		}
		if result.Answer != "Net-zero by 2030." || !result.ReportTruncated {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("stateless", func(t *testing.T) {
		f := newFixture(t)
		sess := readySession(f, "report")

		f.sys.Chat(context.Background(), sess, "first question")
		f.sys.Chat(context.Background(), sess, "second question")

		if strings.Contains(f.inference.prompts[1], "first question") {
			t.Error("second prompt carries earlier question")
		}
		if _, ok := sess.Audit(); ok {
			t.Error("chat wrote the audit slot")
		}
	})
}

func TestComposeAuditPrompt(t *testing.T) {
	got := pipeline.ComposeAuditPrompt("REPORT", "BENCH", "Banking")

	for _, want := range []string{
		"You are a Senior ESG Analyst.",
		"1. HISTORICAL CONTEXT:",
		"2. FORWARD-LOOKING: Are they prepared for upcoming 2026-2030 regulatory shifts?",
		"3. TREND ANALYSIS:",
		"4. AUTHENTICITY: Identify if claims match the historical data trends for Banking.",
		"REPORT DATA: REPORT",
		"BENCHMARKS & TRENDS: BENCH",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		category pipeline.Category
	}{
		{pipeline.ErrEmptyQuestion, 400, pipeline.CategoryPrecondition},
		{pipeline.ErrMissingAPIKey, 409, pipeline.CategoryPrecondition},
		{pipeline.ErrNoAudit, 404, pipeline.CategoryPrecondition},
		{pipeline.ErrFileTooLarge, 413, pipeline.CategoryPrecondition},
		{errors.Join(pipeline.ErrExtractionFailed, errors.New("bad xref")), 422, pipeline.CategoryProvider},
		{pipeline.ErrSearchFailed, 502, pipeline.CategoryProvider},
		{pipeline.ErrInferenceFailed, 502, pipeline.CategoryProvider},
		{sessions.ErrNotFound, 404, pipeline.CategorySession},
		{errors.New("boom"), 500, pipeline.CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c := pipeline.Classify(tt.err)
			if c.Status != tt.status || c.Category != tt.category {
				t.Errorf("got %d/%s, want %d/%s", c.Status, c.Category, tt.status, tt.category)
			}
		})
	}
}
