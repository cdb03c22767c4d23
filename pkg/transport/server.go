package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomkit/loom/pkg/assets"
	"github.com/loomkit/loom/pkg/layout"
	"github.com/loomkit/loom/pkg/renderer"
	"github.com/loomkit/loom/pkg/vdom"
)

// SameOriginCheck validates that a WebSocket upgrade request's Origin
// header matches the request's Host, rejecting cross-origin upgrades.
// This is the secure default for Config.CheckOrigin, ported from the
// teacher's server.SameOriginCheck.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

// RootComponent builds the root node for a new connection (or for a
// shared layout serving every connection, depending on which server
// constructor is used).
type RootComponent func(props any) *vdom.Node

// ConnectionInfo is the per-connection metadata exposed to a component
// tree through hooks.UseConnection (spec.md §4.2 use_connection: "expose
// read-only per-connection metadata" — "transport handle"). RemoteAddr and
// Subprotocol are read once at upgrade time; they do not change for the
// life of the connection.
type ConnectionInfo struct {
	RemoteAddr  string
	Subprotocol string
}

// Server is the HTTP/WebSocket front door for a single rendering
// application. Grounded on the teacher's server.Server, trimmed to chi
// routing + gorilla upgrade + pkg/renderer wiring + pkg/assets module
// serving: no auth, no CSRF, no session persistence/resume.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	root    RootComponent
	props   any
	shared  *renderer.Shared
	runOnce bool

	store       assets.Store
	middlewares []renderer.Middleware

	httpServer *http.Server
}

// New creates a Server that mounts a fresh Layout (and Renderer) per
// WebSocket connection, each connection getting its own independent
// component tree rooted at root(props).
func New(config *Config, root RootComponent, props any, store assets.Store) *Server {
	config = config.applyDefaults()
	logger := slog.Default().With("component", "transport")

	s := &Server{
		config: config,
		logger: logger,
		root:   root,
		props:  props,
		store:  store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.router = s.buildRouter()
	return s
}

// NewShared creates a Server that mounts a single Layout shared by every
// connecting client (SPEC_FULL.md §9, renderer.Shared): every client sees
// the same rendering, receiving independent patch streams from one
// render loop.
func NewShared(config *Config, root RootComponent, props any, store assets.Store) *Server {
	config = config.applyDefaults()
	logger := slog.Default().With("component", "transport")

	l := layout.New(root, props)
	l.Debug = config.DebugMode
	l.Logger = logger

	s := &Server{
		config: config,
		logger: logger,
		store:  store,
		shared: renderer.NewShared(l, config.HistoryCapacity),
	}
	for _, mw := range s.middlewares {
		s.shared.Renderer().Use(mw)
	}
	s.router = s.buildRouter()
	return s
}

// Use registers a renderer middleware (e.g. pkg/middleware.OpenTelemetry,
// pkg/middleware.Prometheus) around every event dispatch. Must be called
// before the first connection is served; for NewShared servers it may be
// called any time before Run since the Shared renderer is built eagerly,
// but for per-connection servers it applies to connections accepted
// afterward only.
func (s *Server) Use(mw renderer.Middleware) {
	s.middlewares = append(s.middlewares, mw)
	if s.shared != nil {
		s.shared.Renderer().Use(mw)
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	prefix := s.config.URLPrefix

	r.Get(prefix+"/ws", s.handleWebSocket)

	if s.config.ServeStaticFiles && s.store != nil {
		r.Get(prefix+"/modules/{name}", s.handleModule)
	}
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.Handler())
	}
	if s.config.RedirectRootToIndex {
		r.NotFound(s.handleIndex)
	}
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleModule answers {base}/modules/{name} from the configured
// assets.Store (spec.md §6 NAME import-source resolution).
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	mod, err := s.store.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("module fetch failed", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mod.ContentType)
	if !mod.ModTime.IsZero() {
		w.Header().Set("Last-Modified", mod.ModTime.UTC().Format(http.TimeFormat))
	}
	w.Write(mod.Content)
}

// handleIndex serves the minimal boot-config HTML document (indexHTML);
// it does not include the thin client's script.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && !s.config.RedirectRootToIndex {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML(s.config)))
}

// handleWebSocket upgrades the request and runs a renderer loop over the
// connection until it closes or the request context is canceled.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.config.MaxMessageSize)

	send := func(data []byte) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	recv := make(chan []byte)
	done := make(chan struct{})
	go func() {
		defer close(recv)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			select {
			case recv <- data:
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	ctx := r.Context()

	if s.shared != nil {
		s.runShared(ctx, send, recv)
		return
	}

	l := layout.New(s.root, s.props)
	l.Debug = s.config.DebugMode
	l.Logger = s.logger
	l.Location = r.URL.Path
	l.Connection = ConnectionInfo{RemoteAddr: r.RemoteAddr, Subprotocol: conn.Subprotocol()}

	rnd := renderer.New(l, s.config.HistoryCapacity)
	for _, mw := range s.middlewares {
		rnd.Use(mw)
	}

	if err := rnd.Run(ctx, send, recv); err != nil {
		s.logger.Warn("connection closed", "error", err)
	}
}

// runShared joins the shared layout's broadcast, forwarding its initial
// snapshot and subsequent patch batches to this connection, and routes
// inbound messages (events, resync requests) back through the shared
// renderer.
func (s *Server) runShared(ctx context.Context, send func([]byte) error, recv <-chan []byte) {
	sub := s.shared.Join(renderer.DefaultQueueSize)
	defer s.shared.Leave(sub.ID)

	if err := send(sub.Initial); err != nil {
		return
	}

	errCh := make(chan error, 1)
	go func() {
		for {
			select {
			case data, ok := <-recv:
				if !ok {
					errCh <- nil
					return
				}
				s.shared.HandleMessage(data, send)
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-sub.Updates:
			if !ok {
				return
			}
			if err := send(data); err != nil {
				return
			}
		case err := <-errCh:
			if err != nil {
				s.logger.Warn("connection closed", "error", err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

// Run starts the HTTP server and blocks until it is shut down, either by
// an interrupt/TERM signal or by ListenAndServe returning an error.
// Grounded on the teacher's Server.Run.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s,
	}

	if s.shared != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := s.shared.Run(ctx); err != nil {
				s.logger.Error("shared renderer stopped", "error", err)
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-shutdown:
		s.logger.Info("shutting down")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server, waiting up to
// Config.ShutdownTimeout for in-flight connections to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
