package server

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/vango-dev/vela/client/dist"
	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/app"
	velamw "github.com/vango-dev/vela/pkg/middleware"
	"github.com/vango-dev/vela/pkg/render"
	"github.com/vango-dev/vela/pkg/surface"
)

// AppInfo describes a mounted app.
type AppInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entry struct {
	info    AppInfo
	factory app.Factory
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics enables Prometheus metrics for sessions and app passes,
// registered in reg under namespace and served at Config.MetricsPath.
func WithMetrics(reg *prometheus.Registry, namespace string) Option {
	return func(s *Server) {
		s.registry = reg
		s.namespace = namespace
		s.metrics = newMetrics(reg, namespace)
		s.appMetrics = app.NewMetrics(app.WithRegistry(reg), app.WithNamespace(namespace))
	}
}

// Server hosts apps for browser sessions.
type Server struct {
	config   *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	renderer *render.Renderer

	registry   *prometheus.Registry
	namespace  string
	metrics    *metrics
	appMetrics *app.Metrics

	appsMu sync.RWMutex
	apps   map[string]entry

	sessionsMu sync.Mutex
	sessions   map[string]*session
	wg         sync.WaitGroup

	handlerOnce sync.Once
	handler     http.Handler
	httpServer  *http.Server
}

// New creates a Server. A nil config uses DefaultConfig.
func New(config *Config, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(render.RendererConfig{}),
		apps:     make(map[string]entry),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	return s
}

// Mount registers an app under name. The first app mounted is the default
// unless Config.DefaultApp names another.
func (s *Server) Mount(name, description string, f app.Factory) {
	s.appsMu.Lock()
	defer s.appsMu.Unlock()
	s.apps[name] = entry{info: AppInfo{Name: name, Description: description}, factory: f}
	if s.config.DefaultApp == "" {
		s.config.DefaultApp = name
	}
}

// Apps returns the mounted apps sorted by name.
func (s *Server) Apps() []AppInfo {
	s.appsMu.RLock()
	defer s.appsMu.RUnlock()
	out := make([]AppInfo, 0, len(s.apps))
	for _, e := range s.apps {
		out = append(out, e.info)
	}
	slices.SortFunc(out, func(a, b AppInfo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// lookup resolves the app named by the request's ?app= parameter.
func (s *Server) lookup(r *http.Request) (string, entry, bool) {
	name := r.URL.Query().Get("app")
	if name == "" {
		name = s.config.DefaultApp
	}
	s.appsMu.RLock()
	defer s.appsMu.RUnlock()
	e, ok := s.apps[name]
	return name, e, ok
}

// Handler returns the HTTP handler with every route. It is built once.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() { s.handler = s.routes() })
	return s.handler
}

func (s *Server) routes() http.Handler {
	isSocket := func(r *http.Request) bool { return r.URL.Path == s.config.SocketPath }

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(velamw.Logger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(velamw.OpenTelemetry(velamw.WithFilter(func(r *http.Request) bool { return !isSocket(r) })))
	if s.registry != nil {
		r.Use(velamw.Prometheus(
			velamw.WithRegistry(s.registry),
			velamw.WithNamespace(s.namespace),
			velamw.WithSkip(isSocket),
		))
	}

	r.Get("/", s.handlePage)
	r.Get(s.config.ClientPath, s.handleClient)
	r.Get(s.config.SocketPath, s.handleSocket)
	r.Get("/api/apps", s.handleApps)
	if s.registry != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name, e, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown app "+strconv.Quote(name), http.StatusNotFound)
		return
	}

	mem := surface.NewMemory(surface.WithoutRecording())
	run, err := e.factory(mem, mem.Root(), app.WithLogger(s.logger.With("app", name)))
	if err != nil {
		s.logger.Error("page render failed", "app", name, "error", err)
		http.Error(w, velaerrors.FromError(err, "E121").FormatCompact(), http.StatusInternalServerError)
		return
	}
	defer run.Stop()

	var buf bytes.Buffer
	err = s.renderer.RenderPage(&buf, render.PageData{
		Title:        s.config.Title + " · " + name,
		Source:       mem,
		Mount:        mem.Root(),
		ClientScript: s.config.ClientPath,
		SocketPath:   s.config.SocketPath + "?app=" + url.QueryEscape(name),
	})
	if err != nil {
		s.logger.Error("page render failed", "app", name, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientdist.VelaJS)
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Apps()); err != nil {
		s.logger.Warn("encode apps", "error", err)
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	name, e, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown app "+strconv.Quote(name), http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.wsError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, name, s)
	if !s.track(sess) {
		sess.cancel()
		sess.closeWith(websocket.CloseGoingAway, "server shutting down")
		return
	}
	defer s.untrack(sess)
	sess.serve(e.factory)
}

// track registers sess. It reports false once shutdown has begun.
func (s *Server) track(sess *session) bool {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	if s.sessions == nil {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.metrics.sessionStarted()
	return true
}

func (s *Server) untrack(sess *session) {
	s.sessionsMu.Lock()
	if s.sessions != nil {
		delete(s.sessions, sess.id)
	}
	s.sessionsMu.Unlock()
	s.metrics.sessionEnded()
	s.wg.Done()
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}

// Run serves on Config.Address until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessionsMu.Lock()
	sessions := s.sessions
	s.sessions = nil
	s.sessionsMu.Unlock()
	for _, sess := range sessions {
		sess.shutdown()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("sessions still open at shutdown deadline")
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
