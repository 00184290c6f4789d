package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/sslsetup/core/logger"
	"github.com/dmitrymomot/sslsetup/core/progress"
	"github.com/dmitrymomot/sslsetup/core/provision"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Provisioner starts and looks up runs. *provision.Service implements it.
type Provisioner interface {
	Start(ctx context.Context, req provision.Request) (*provision.Run, error)
	Get(id uuid.UUID) (*provision.Run, error)
	List() []*provision.Run
}

// DomainSuggester offers domains for the form. *netinfo.Lookup implements it.
type DomainSuggester interface {
	SuggestDomains(ctx context.Context) (ip string, domains []string)
}

// Check is a readiness dependency check.
type Check func(ctx context.Context) error

// Handler serves the pages, the JSON API and the health probes.
type Handler struct {
	runs      Provisioner
	suggester DomainSuggester
	checks    []Check
	logger    *slog.Logger
	tmpl      *template.Template
	upgrader  websocket.Upgrader
	refresh   time.Duration
	mux       *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request error logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSuggester sets the source of domain suggestions for the form.
func WithSuggester(s DomainSuggester) Option {
	return func(h *Handler) {
		h.suggester = s
	}
}

// WithReadinessChecks adds checks run by /health/ready.
func WithReadinessChecks(checks ...Check) Option {
	return func(h *Handler) {
		h.checks = append(h.checks, checks...)
	}
}

// WithRefreshInterval sets how often the progress page reloads while a run is active.
func WithRefreshInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.refresh = d
		}
	}
}

// WithOriginCheck overrides the WebSocket origin check. The default accepts
// same-host origins only.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

// New creates a Handler.
func New(runs Provisioner, opts ...Option) *Handler {
	h := &Handler{
		runs:    runs,
		logger:  logger.Nop(),
		refresh: 2 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
		},
		tmpl: template.Must(template.New("").Funcs(template.FuncMap{
			"lower": func(s progress.Status) string { return strings.ToLower(string(s)) },
			"stamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
		}).ParseFS(templatesFS, "templates/*.html")),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(logger.Component("web"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.wrap(h.index))
	mux.HandleFunc("POST /{$}", h.wrap(h.submit))
	mux.HandleFunc("GET /runs/{id}", h.wrap(h.runPage))
	mux.HandleFunc("GET /api/runs", h.wrap(h.listRuns))
	mux.HandleFunc("POST /api/runs", h.wrap(h.createRun))
	mux.HandleFunc("GET /api/runs/{id}", h.wrap(h.getRun))
	mux.HandleFunc("GET /api/runs/{id}/ws", h.wrap(h.streamRun))
	mux.HandleFunc("GET /health/live", h.wrap(h.live))
	mux.HandleFunc("GET /health/ready", h.wrap(h.ready))
	h.mux = mux

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) lookup(r *http.Request) (*provision.Run, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, httpError(http.StatusNotFound, provision.ErrRunNotFound)
	}
	run, err := h.runs.Get(id)
	if err != nil {
		return nil, httpError(http.StatusNotFound, err)
	}
	return run, nil
}

func logAttrs(r *http.Request, err error) []any {
	return []any{
		logger.Key("method", r.Method),
		logger.Key("path", r.URL.Path),
		logger.Error(err),
	}
}
