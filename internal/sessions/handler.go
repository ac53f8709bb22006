package sessions

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/auditor/pkg/handlers"
	"github.com/JaimeStill/auditor/pkg/routes"
)

// Handler provides HTTP endpoints for session operations.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// CredentialsRequest sets the inference API key for a session.
type CredentialsRequest struct {
	APIKey string `json:"api_key"`
}

// NewHandler creates a Handler backed by store.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("handler", "sessions"),
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "PUT", Pattern: "/{id}/credentials", Handler: h.SetCredentials},
		},
	}
}

// Create starts a new session and returns its state.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	handlers.RespondJSON(w, http.StatusCreated, sess.Snapshot())
}

// Find returns the state of the session named by the {id} path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Resolve(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess.Snapshot())
}

// Delete ends a session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Resolve(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.store.Delete(sess.ID); err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondNoContent(w)
}

// SetCredentials replaces the session's inference API key. A blank key
// clears it.
func (h *Handler) SetCredentials(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Resolve(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req CredentialsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return
	}

	sess.SetAPIKey(strings.TrimSpace(req.APIKey))
	handlers.RespondJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondProblem(w, h.logger, MapHTTPStatus(err), err, Problem(err))
}
