package server

import (
	"errors"
	"io"
	"net"
)

// handleConnection serves exactly one request on conn and then closes it.
//
// A read that yields no bytes closes silently. Bytes that do not parse get a
// 400; everything that parses gets whatever the router and handler produce,
// with a 404 for unmatched routes and a 500 for handler failures.
func (s *HTTPServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger := s.Logger.With("remote", remote)
	logger.Debug("accepted connection")

	buf := make([]byte, ReadBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("failed to read request", "error", err)
		}
		return
	}

	var response *Response
	request, err := ParseRequest(buf[:n], s.sc)
	if err != nil {
		response = applyDefaults(HTTP400BadRequest())
		logger.Error("failed to parse request", "error", err, "response", response.StatusCode().Code())
	} else {
		request = request.withRemoteAddr(remote)
		logger.Debug("parsed request",
			"method", request.Method().String(),
			"path", request.Path(),
			"version", request.Version(),
		)
		response = s.ServeRequest(request)
	}

	if err := WriteResponse(conn, response); err != nil {
		logger.Error("failed to send response", "error", err)
		return
	}
	logger.Debug("sent response", "status", response.StatusCode().String())
}

// ServeRequest routes request through the middleware pipeline. It always
// returns a response.
func (s *HTTPServer) ServeRequest(request *Request) *Response {
	handler, params, found := s.Router.Match(request)
	if !found {
		s.Logger.Warn("no handler found",
			"method", request.Method().String(),
			"path", request.Path(),
		)
		handler = notFound
	} else {
		request = request.withParams(params)
	}

	response, err := Chain(handler, s.Middlewares...)(request)
	if err != nil || response == nil {
		return applyDefaults(HTTP500InternalServerError())
	}
	return response
}

func notFound(*Request) (*Response, error) {
	return HTTP404NotFound(), nil
}
