package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"

	"golang.org/x/net/netutil"
)

type Config struct {
	Addr      string
	Directory string
	// MaxConns caps concurrently open connections; zero means unbounded.
	MaxConns  int
	ReusePort bool
}

type Server interface {
	ListenAndServe(ctx context.Context) error
}

var _ Server = (*HTTPServer)(nil)

type HTTPServer struct {
	Config      Config
	Router      *Router
	Middlewares []Middleware
	Logger      *slog.Logger

	sc       *ServerContext
	mu       sync.Mutex
	listener net.Listener
}

func NewHTTPServer(cfg Config, router *Router, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if router == nil {
		router = &Router{}
	}

	return &HTTPServer{
		Config: cfg,
		Router: router,
		Middlewares: []Middleware{
			RecoverMiddleware(logger),
			LoggingMiddleware(logger),
			BaseMiddleware,
		},
		Logger: logger,
		sc:     &ServerContext{Directory: cfg.Directory},
	}
}

// ServerContext returns the configuration handed to every request.
func (s *HTTPServer) ServerContext() *ServerContext {
	return s.sc
}

// ListenAndServe binds Config.Addr and serves until ctx is cancelled or the
// listener fails. Cancellation stops accepting; open connections finish on
// their own.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	lc := net.ListenConfig{Control: s.control()}
	listen, err := lc.Listen(ctx, "tcp", s.Config.Addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.Logger.Error("failed to listen", "addr", s.Config.Addr, "error", err)
		return fmt.Errorf("failed to listen on %s: %w", s.Config.Addr, err)
	}

	s.Logger.Info("listening", "addr", listen.Addr().String())
	if s.sc.HasDirectory() {
		s.Logger.Info("serving files from", "directory", s.sc.Directory)
	}
	return s.Serve(ctx, listen)
}

// Serve runs the accept loop on listen, one goroutine per connection. An
// accept error other than shutdown ends the loop and is returned.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	if s.Config.MaxConns > 0 {
		listen = netutil.LimitListener(listen, s.Config.MaxConns)
	}

	s.mu.Lock()
	s.listener = listen
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		listen.Close()
	})
	defer stop()
	defer listen.Close()

	for {
		conn, err := listen.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info("server stopped", "addr", listen.Addr().String())
				return nil
			}
			s.Logger.Error("failed to accept connection", "error", err)
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		go s.handleConnection(conn)
	}
}

// Addr is the bound address, or nil before the server is listening.
func (s *HTTPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
