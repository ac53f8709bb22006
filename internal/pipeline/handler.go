package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/auditor/internal/sessions"
	"github.com/JaimeStill/auditor/pkg/formatting"
	"github.com/JaimeStill/auditor/pkg/handlers"
	"github.com/JaimeStill/auditor/pkg/routes"
)

// ReportFilename is the download name of the audit report.
const ReportFilename = "Sustainability_Audit_Report.txt"

// Handler provides HTTP endpoints for pipeline actions.
type Handler struct {
	sys           System
	store         *sessions.Store
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, session store, logger,
// and upload size limit.
func NewHandler(sys System, store *sessions.Store, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		store:         store,
		logger:        logger.With("handler", "pipeline"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for pipeline endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions/{id}",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/extract", Handler: h.Extract},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/audit", Handler: h.Audit},
			{Method: "GET", Pattern: "/audit/report", Handler: h.Download},
			{Method: "POST", Pattern: "/chat", Handler: h.Chat},
		},
	}
}

// Extract accepts a multipart upload with a "file" field and stores its text.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadSize {
		h.logger.Warn(
			"upload rejected",
			"session_id", sess.ID,
			"size", formatting.FormatBytes(r.ContentLength, 1),
			"limit", formatting.FormatBytes(h.maxUploadSize, 0),
		)
		h.fail(w, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, ErrFileTooLarge)
			return
		}
		h.fail(w, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, ErrInvalidFile)
		return
	}

	h.logger.Debug(
		"upload received",
		"session_id", sess.ID,
		"filename", header.Filename,
		"size", formatting.FormatBytes(int64(len(data)), 1),
	)

	result, err := h.sys.Extract(r.Context(), sess, ExtractCommand{
		Data:     data,
		Filename: header.Filename,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search gathers benchmarks for the industry in the JSON body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	result, err := h.sys.Search(r.Context(), sess, req.Industry)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Audit generates the comparative audit for the session.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Audit(r.Context(), sess)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Download returns the stored audit as a plain text attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	text, err := h.sys.Report(sess)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ReportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// Chat answers the question in the JSON body from the session's report.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	result, err := h.sys.Chat(r.Context(), sess, req.Question)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, err := h.store.Resolve(r)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondProblem(w, h.logger, MapHTTPStatus(err), err, Problem(err))
}
