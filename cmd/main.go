package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/marcocampos/tcp-http/internal/endpoints"
	"github.com/marcocampos/tcp-http/internal/server"
)

type options struct {
	directory string
	hostname  string
	port      string
	logLevel  string
	maxConns  int
	reusePort bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	fs.StringVar(&opts.directory, "directory", "", "Directory to serve files from (file routes answer 500 without it)")
	fs.StringVar(&opts.hostname, "hostname", "127.0.0.1", "Hostname or IP address to bind to")
	fs.StringVar(&opts.port, "port", "4221", "Port to listen on")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.IntVar(&opts.maxConns, "max-conns", 0, "Maximum concurrent connections (0 means unlimited)")
	fs.BoolVar(&opts.reusePort, "reuse-port", false, "Set SO_REUSEPORT on the listening socket")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.directory != "" {
		info, err := os.Stat(opts.directory)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory %s does not exist", opts.directory)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat directory %s: %w", opts.directory, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", opts.directory)
		}
	}
	if opts.maxConns < 0 {
		return nil, fmt.Errorf("max-conns must not be negative, got %d", opts.maxConns)
	}
	return opts, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func run(ctx context.Context, opts *options, logger *slog.Logger) error {
	router, err := endpoints.NewRouter(logger)
	if err != nil {
		return fmt.Errorf("failed to build routes: %w", err)
	}

	srv := server.NewHTTPServer(server.Config{
		Addr:      net.JoinHostPort(opts.hostname, opts.port),
		Directory: opts.directory,
		MaxConns:  opts.maxConns,
		ReusePort: opts.reusePort,
	}, router, logger)

	return srv.ListenAndServe(ctx)
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logger := setupLogger(opts.logLevel)
	logger.Info("tcp-http: a simple HTTP server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("server failed", "error", err)
		stop()
		os.Exit(1)
	}
}
