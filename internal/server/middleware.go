package server

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Middleware is a function that wraps a HandlerFunc to add functionality
type Middleware func(next HandlerFunc) HandlerFunc

const ServerName = "tcp-http/0.1"

// DefaultResponseHeaders are added to every response that does not already
// carry them.
var DefaultResponseHeaders = map[string]string{
	"Server": ServerName,
}

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(handler HandlerFunc, middlewares ...Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// BaseMiddleware adds default headers and makes sure every response declares
// its length, including bodiless ones.
func BaseMiddleware(next HandlerFunc) HandlerFunc {
	return func(request *Request) (*Response, error) {
		response, err := next(request)
		if err != nil {
			return nil, err
		}
		if response == nil {
			return nil, fmt.Errorf("handler for %s returned no response", request.Path())
		}

		return applyDefaults(response), nil
	}
}

func applyDefaults(response *Response) *Response {
	for key, value := range DefaultResponseHeaders {
		if _, exists := response.Get(key); !exists {
			response.Header(key, value)
		}
	}
	if _, exists := response.Get("Content-Length"); !exists {
		response.Header("Content-Length", "0")
	}
	return response
}

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(request *Request) (*Response, error) {
			start := time.Now()
			userAgent, _ := request.Header("user-agent")

			logger.Debug("request",
				"method", request.Method().String(),
				"path", request.Path(),
				"remote", request.RemoteAddr(),
				"user-agent", userAgent,
			)

			response, err := next(request)
			duration := time.Since(start)

			if err != nil {
				logger.Error("request failed",
					"method", request.Method().String(),
					"path", request.Path(),
					"remote", request.RemoteAddr(),
					"duration", duration,
					"error", err,
				)
			} else if response != nil {
				logger.Info("response",
					"method", request.Method().String(),
					"path", request.Path(),
					"remote", request.RemoteAddr(),
					"status", response.StatusCode().Code(),
					"duration", duration,
					"size", len(response.BodyBytes()),
				)
			}

			return response, err
		}
	}
}

// RecoverMiddleware turns a handler panic into an error so the connection
// still gets a 500.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(request *Request) (response *Response, err error) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panicked",
						"path", request.Path(),
						"panic", v,
						"stack", string(debug.Stack()),
					)
					response = nil
					err = fmt.Errorf("handler panic: %v", v)
				}
			}()
			return next(request)
		}
	}
}
