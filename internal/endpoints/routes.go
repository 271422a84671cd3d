package endpoints

import (
	"log/slog"

	"github.com/marcocampos/tcp-http/internal/server"
)

// Register adds the built-in routes to b, in matching order.
func Register(b *server.RouterBuilder, logger *slog.Logger) *server.RouterBuilder {
	files := FileHandler{Logger: logger}

	return b.
		Handle("/", server.MethodGet, &RootHandler{}).
		Handle("/echo/{value}", server.MethodGet, &EchoHandler{}).
		Handle("/user-agent", server.MethodGet, &UserAgentHandler{}).
		Handle("/files/{name:file}", server.MethodGet, &files).
		Handle("/files/{name:file}", server.MethodPost, &FileUploadHandler{FileHandler: files})
}

func NewRouter(logger *slog.Logger) (*server.Router, error) {
	return Register(server.NewRouterBuilder(), logger).Build()
}
