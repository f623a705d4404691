// Package handler contains chi HTTP handlers that serve the registration
// page and translate form posts into controller actions.
package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// MsgSubmissionInProgress is shown when the same form is posted twice before
// the first write finishes.
const MsgSubmissionInProgress = "Your registration is already being submitted. Please wait."

// Options configures a RegistrationHandler.
type Options struct {
	// EventPageBaseURL prefixes the "back to event" link.
	EventPageBaseURL string
	Logger           *slog.Logger
}

// RegistrationHandler serves the registration page for one organization
// event pair per request.
type RegistrationHandler struct {
	resolver  service.EventResolver
	submitter service.Submitter
	inflight  *inflight
	eventBase string
	log       *slog.Logger
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(resolver service.EventResolver, submitter service.Submitter, opts Options) *RegistrationHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationHandler{
		resolver:  resolver,
		submitter: submitter,
		inflight:  newInflight(),
		eventBase: strings.TrimRight(opts.EventPageBaseURL, "/"),
		log:       logger,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathParam returns a route parameter percent-decoded exactly once. chi
// matches on the raw path when one is present, leaving parameters encoded.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

func (h *RegistrationHandler) controller(r *http.Request) *service.Controller {
	return service.NewController(h.resolver, h.submitter,
		pathParam(r, "organization"), pathParam(r, "event"),
		service.WithLogger(h.log))
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Page handles GET /{organization}/{event}/register
// Resolves the event once and renders the blocking view or an empty form.
func (h *RegistrationHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(r)
	state, err := ctrl.Load(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "load registration page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, ctrl, state, uuid.NewString(), "")
}

// Submit handles POST /{organization}/{event}/register
// Applies every posted field, then submits when the form is clean.
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	token := r.PostFormValue("token")
	if _, err := uuid.Parse(token); err != nil {
		token = uuid.NewString()
	}

	ctrl := h.controller(r)
	state, err := ctrl.Load(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "load registration page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if state.Phase().Blocking() {
		h.render(w, r, ctrl, state, token, "")
		return
	}

	for _, field := range model.Fields {
		if state, err = ctrl.Change(field, r.PostFormValue(string(field))); err != nil {
			h.log.ErrorContext(r.Context(), "apply registration field", "field", field, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	release, err := h.inflight.acquire(token)
	switch {
	case errors.Is(err, errTokenUsed):
		// A refresh or replay of a page that already registered someone.
		h.log.InfoContext(r.Context(), "registration already submitted", "token", token)
		h.render(w, r, ctrl, service.Success{
			Event:   state.(service.Editing).Event,
			Form:    model.NewRegistrationForm(),
			Message: service.MsgSubmitSucceeded,
		}, token, "")
		return
	case err != nil:
		h.render(w, r, ctrl, state, token, MsgSubmissionInProgress)
		return
	}
	registered := false
	defer func() { release(registered) }()

	state, err = ctrl.Submit(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "submit registration", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	registered = state.Phase() == service.PhaseSuccess
	h.render(w, r, ctrl, state, token, "")
}

// ValidateField handles POST /api/validate
// Returns the message for a single field so the page can show it while the
// attendee types.
func ValidateField(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	field, ok := model.ParseField(req.Field)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown field: "+req.Field)
		return
	}
	writeJSON(w, http.StatusOK, model.ValidateResponse{
		Field: string(field),
		Error: service.Validate(field, req.Value),
	})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── In-flight submissions ────────────────────────────────────────────────────

// completedTokens bounds how many registered form tokens are remembered.
const completedTokens = 4096

var (
	errTokenBusy = errors.New("registration in flight for token")
	errTokenUsed = errors.New("token already registered")
)

// inflight tracks form tokens whose registration write is outstanding, and
// the most recent tokens whose write succeeded.
type inflight struct {
	mu    sync.Mutex
	busy  map[string]struct{}
	done  map[string]struct{}
	order []string
	limit int
}

func newInflight() *inflight {
	return &inflight{
		busy:  make(map[string]struct{}),
		done:  make(map[string]struct{}),
		limit: completedTokens,
	}
}

// acquire claims token for one write. The returned release must be called
// once; passing true records the token as used so it can never write again.
func (f *inflight) acquire(token string) (func(registered bool), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, used := f.done[token]; used {
		return nil, errTokenUsed
	}
	if _, busy := f.busy[token]; busy {
		return nil, errTokenBusy
	}
	f.busy[token] = struct{}{}
	return func(registered bool) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.busy, token)
		if registered {
			f.remember(token)
		}
	}, nil
}

// remember must be called with mu held.
func (f *inflight) remember(token string) {
	f.done[token] = struct{}{}
	f.order = append(f.order, token)
	if len(f.order) > f.limit {
		delete(f.done, f.order[0])
		f.order = f.order[1:]
	}
}
