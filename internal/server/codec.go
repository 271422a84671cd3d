package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReadBufferSize bounds a request: whatever a single read returns is the
// whole request, body included.
const ReadBufferSize = 4096

var ErrEmptyRequest = errors.New("empty request")

type ParseError struct {
	Reason string
	Line   string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return "malformed request: " + e.Reason
	}
	return fmt.Sprintf("malformed request: %s: %q", e.Reason, e.Line)
}

// ParseRequest decodes one request from the bytes of a single socket read.
//
// The request line needs at least a method and a target; the version is
// optional. Header lines run up to the first empty line and must contain
// ": ". Everything after the empty line is the body. Unknown methods are
// kept as MethodInvalid rather than rejected.
func ParseRequest(buf []byte, sc *ServerContext) (*Request, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyRequest
	}

	line, rest, _ := nextLine(buf)
	parts := strings.Split(string(line), " ")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, &ParseError{Reason: "invalid request line", Line: string(line)}
	}

	request := &Request{
		method:  ParseMethod(parts[0]),
		path:    parts[1],
		headers: make(map[string]string),
		sc:      sc,
	}
	if len(parts) > 2 {
		request.version = parts[2]
	}

	lower := cases.Lower(language.Und)
	for len(rest) > 0 {
		var found bool
		line, rest, found = nextLine(rest)
		if len(line) == 0 {
			if found && len(rest) > 0 {
				request.body = append([]byte(nil), rest...)
			}
			break
		}

		key, value, ok := strings.Cut(string(line), ": ")
		if !ok {
			return nil, &ParseError{Reason: "invalid header", Line: string(line)}
		}
		request.headers[lower.String(key)] = value
	}

	return request, nil
}

// nextLine splits off the first line of buf, dropping the "\n" and one
// trailing "\r". found reports whether a newline terminated the line.
func nextLine(buf []byte) (line, rest []byte, found bool) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		return bytes.TrimSuffix(buf, []byte("\r")), nil, false
	}
	return bytes.TrimSuffix(buf[:idx], []byte("\r")), buf[idx+1:], true
}

// foldHeaderKey lower-cases a header name. Casers keep state, so each call
// gets its own.
func foldHeaderKey(key string) string {
	return cases.Lower(language.Und).String(key)
}

// Bytes serializes the response: status line, one line per header, a blank
// line and the raw body with no trailing terminator.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d %s\r\n", Protocol, r.status.Code(), r.status.Reason())
	for key, value := range r.headers {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(r.body)
	return buf.Bytes()
}

func WriteResponse(w io.Writer, response *Response) error {
	if _, err := w.Write(response.Bytes()); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
