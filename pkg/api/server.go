package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bestofjs/pkg/buildinfo"
	"github.com/matzehuels/bestofjs/pkg/dataset"
	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/query"
	"github.com/matzehuels/bestofjs/pkg/search"
)

const (
	// DefaultLimit is the page size when a request gives none.
	DefaultLimit = 20
	// MaxLimit is the largest page size a request may ask for.
	MaxLimit = 100
	// DefaultPopularLimit is the number of tags on /tags/popular.
	DefaultPopularLimit = 10

	maxBodyBytes = 1 << 20
)

// Searcher is the subset of [search.Client] the API needs.
type Searcher interface {
	FindProjects(ctx context.Context, q query.Query) (*search.ProjectResult, error)
	FindTags(ctx context.Context, q query.Query) (*search.TagResult, error)
	PopularTags(ctx context.Context, limit int) (*search.TagResult, error)
	GetProjectBySlug(ctx context.Context, slug string) (*dataset.Project, error)
	HotProjects(ctx context.Context, limit int) ([]*dataset.Project, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used by "bestofjs serve".
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server exposes a Searcher over HTTP.
type Server struct {
	search Searcher
	cfg    Config
	logger *log.Logger
	ready  func() bool
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithConfig replaces [DefaultConfig].
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithReadiness reports dataset readiness on /healthz.
func WithReadiness(ready func() bool) Option {
	return func(s *Server) { s.ready = ready }
}

// New creates a Server.
func New(searcher Searcher, opts ...Option) *Server {
	s := &Server{
		search: searcher,
		cfg:    DefaultConfig(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		ready:  func() bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, s.accessLog, s.recoverer)

	r.Get("/healthz", s.health)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.listProjects)
		r.Post("/search", s.searchProjects)
		r.Get("/hot", s.hotProjects)
		r.Get("/{slug}", s.getProject)
	})
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", s.listTags)
		r.Get("/popular", s.popularTags)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"ready":   s.ready(),
		"version": buildinfo.Version,
	})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromValues(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.findProjects(w, r, q)
}

func (s *Server) searchProjects(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	q, err := query.ParseDescriptor(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkLimit(&q); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.findProjects(w, r, q)
}

func (s *Server) findProjects(w http.ResponseWriter, r *http.Request, q query.Query) {
	res, err := s.search.FindProjects(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) hotProjects(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	projects, err := s.search.HotProjects(r.Context(), min(limit, MaxLimit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := errors.ValidateSlug(slug); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.search.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if p == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "project %q not found", slug))
		return
	}
	w.Header().Set("Cache-Control", "max-age=3600")
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromValues(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.search.FindTags(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) popularTags(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", DefaultPopularLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.search.PopularTags(r.Context(), min(limit, MaxLimit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Request parsing
// =============================================================================

// queryFromValues builds a query from the criteria, sort, projection,
// skip, limit and scope URL parameters.
func queryFromValues(r *http.Request) (query.Query, error) {
	v := r.URL.Query()
	var q query.Query
	var err error
	if q.Criteria, err = query.ParseCriteriaJSON([]byte(v.Get("criteria"))); err != nil {
		return q, err
	}
	if q.Sort, err = query.ParseSortJSON([]byte(v.Get("sort"))); err != nil {
		return q, err
	}
	if q.Projection, err = query.ParseProjectionJSON([]byte(v.Get("projection"))); err != nil {
		return q, err
	}
	if q.RelevanceScope, err = query.ParseScope(v.Get("scope")); err != nil {
		return q, err
	}
	if q.Skip, err = intParam(r, "skip", 0); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(r, "limit", DefaultLimit); err != nil {
		return q, err
	}
	return q, checkLimit(&q)
}

// checkLimit applies DefaultLimit to unbounded queries and rejects pages
// larger than MaxLimit.
func checkLimit(q *query.Query) error {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		return errors.New(errors.ErrCodeInvalidQuery, "limit must be at most %d, got %d", MaxLimit, q.Limit)
	}
	return nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidQuery, "%s must be a non-negative integer, got %q", name, s)
	}
	return n, nil
}
