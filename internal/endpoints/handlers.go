package endpoints

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/marcocampos/tcp-http/internal/server"
)

type RootHandler struct{}

func (h *RootHandler) Handle() server.HandlerFunc {
	return func(request *server.Request) (*server.Response, error) {
		return server.EmptyResponse(), nil
	}
}

// EchoHandler replies with the path segment captured as "value".
type EchoHandler struct{}

func (h *EchoHandler) Handle() server.HandlerFunc {
	return func(request *server.Request) (*server.Response, error) {
		return server.NewResponse(request).
			Header("Content-Type", "text/plain").
			Body([]byte(request.Param("value"))), nil
	}
}

type UserAgentHandler struct{}

func (h *UserAgentHandler) Handle() server.HandlerFunc {
	return func(request *server.Request) (*server.Response, error) {
		userAgent, ok := request.Header("User-Agent")
		if !ok {
			return server.HTTP400BadRequest(), nil
		}
		return server.NewResponse(request).
			Header("Content-Type", "text/plain").
			Body([]byte(userAgent)), nil
	}
}

// FileHandler serves files from the server's configured directory. Without
// a directory every request is answered with a 500.
type FileHandler struct {
	Logger *slog.Logger
}

func (h *FileHandler) Handle() server.HandlerFunc {
	return func(request *server.Request) (*server.Response, error) {
		path, resp := h.resolve(request)
		if resp != nil {
			return resp, nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				h.logger().Debug("file not found", "path", path)
				return server.HTTP404NotFound(), nil
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		return server.NewResponse(request).
			Header("Content-Type", "application/octet-stream").
			Body(data), nil
	}
}

// FileUploadHandler stores the request body under the configured directory.
type FileUploadHandler struct {
	FileHandler
}

func (h *FileUploadHandler) Handle() server.HandlerFunc {
	return func(request *server.Request) (*server.Response, error) {
		path, resp := h.resolve(request)
		if resp != nil {
			return resp, nil
		}

		if err := os.WriteFile(path, request.Body(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		h.logger().Debug("file written", "path", path)
		return server.EmptyResponse().Status(server.StatusCreated), nil
	}
}

// resolve maps the "name" parameter to a path inside the serving directory,
// or returns the response to send instead.
func (h *FileHandler) resolve(request *server.Request) (string, *server.Response) {
	path, err := request.ServerContext().Resolve(request.Param("name"))
	switch {
	case errors.Is(err, server.ErrNoDirectory):
		h.logger().Warn("file request without a serving directory", "path", request.Path())
		return "", server.HTTP500InternalServerError()
	case err != nil:
		return "", server.HTTP404NotFound()
	}
	return path, nil
}

func (h *FileHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
