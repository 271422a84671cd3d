package server

import (
	"maps"
	"strconv"
	"strings"
)

const Protocol = "HTTP/1.1"

type Method int

const (
	MethodInvalid Method = iota
	MethodGet
	MethodPost
)

// ParseMethod never fails: anything other than GET or POST is MethodInvalid.
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	default:
		return MethodInvalid
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	default:
		return "INVALID"
	}
}

type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusBadRequest
	StatusNotFound
	StatusInternalServerError
)

func (s Status) Code() int {
	switch s {
	case StatusCreated:
		return 201
	case StatusBadRequest:
		return 400
	case StatusNotFound:
		return 404
	case StatusInternalServerError:
		return 500
	default:
		return 200
	}
}

func (s Status) Reason() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "OK"
	}
}

func (s Status) String() string {
	return strconv.Itoa(s.Code()) + " " + s.Reason()
}

// Request is built once per connection by ParseRequest and never mutated.
type Request struct {
	method     Method
	path       string
	version    string
	headers    map[string]string
	body       []byte
	params     map[string]string
	remoteAddr string
	sc         *ServerContext
}

func (r *Request) Method() Method { return r.method }

// Path is the raw request target, not percent-decoded.
func (r *Request) Path() string { return r.path }

func (r *Request) Version() string { return r.version }

func (r *Request) RemoteAddr() string { return r.remoteAddr }

// Param returns the path segment captured by the named route wildcard.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Header looks up a header by any case variant of its name.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[foldHeaderKey(name)]
	return v, ok
}

// Headers returns a copy of the headers keyed by lower-cased name.
func (r *Request) Headers() map[string]string {
	return maps.Clone(r.headers)
}

func (r *Request) Body() []byte {
	return append([]byte(nil), r.body...)
}

// ServerContext is never nil; requests parsed without one get an empty context.
func (r *Request) ServerContext() *ServerContext {
	if r.sc == nil {
		return &ServerContext{}
	}
	return r.sc
}

func (r *Request) withParams(params map[string]string) *Request {
	cp := *r
	cp.params = params
	return &cp
}

func (r *Request) withRemoteAddr(addr string) *Request {
	cp := *r
	cp.remoteAddr = addr
	return &cp
}

// Response accumulates status, headers and body for a single reply. The zero
// value is a usable 200 with no headers.
type Response struct {
	status   Status
	headers  map[string]string
	body     []byte
	hasBody  bool
	encodeFn func(name string, body []byte) ([]byte, error)
}

// EmptyResponse is a 200 with no headers and no body.
func EmptyResponse() *Response {
	return &Response{
		status:   StatusOK,
		headers:  make(map[string]string),
		encodeFn: encodeBody,
	}
}

// NewResponse starts a 200 response whose Content-Encoding is negotiated
// from the request's Accept-Encoding header.
func NewResponse(req *Request) *Response {
	resp := EmptyResponse()
	if req == nil {
		return resp
	}
	accept, _ := req.Header("accept-encoding")
	if encodings := NegotiateEncodings(accept); len(encodings) > 0 {
		resp.set("Content-Encoding", strings.Join(encodings, ", "))
	}
	return resp
}

func (r *Response) Status(s Status) *Response {
	r.status = s
	return r
}

func (r *Response) Header(key, value string) *Response {
	r.set(key, value)
	return r
}

func (r *Response) Headers(headers map[string]string) *Response {
	for k, v := range headers {
		r.set(k, v)
	}
	return r
}

func (r *Response) set(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
}

// Body attaches the body, encoding it with the first listed Content-Encoding
// and setting Content-Length to the final length. An encoding failure drops
// the Content-Encoding header and keeps the raw bytes.
func (r *Response) Body(body []byte) *Response {
	data := append([]byte(nil), body...)

	if key, value, ok := r.lookup("content-encoding"); ok {
		first := strings.TrimSpace(strings.Split(value, ",")[0])
		encode := r.encodeFn
		if encode == nil {
			encode = encodeBody
		}
		encoded, err := encode(first, data)
		if err != nil || !IsSupportedEncoding(first) {
			delete(r.headers, key)
		} else {
			data = encoded
		}
	}

	if key, _, ok := r.lookup("content-length"); ok {
		delete(r.headers, key)
	}
	r.set("Content-Length", strconv.Itoa(len(data)))
	r.body = data
	r.hasBody = true
	return r
}

// Get returns a header value regardless of the case it was inserted with.
func (r *Response) Get(name string) (string, bool) {
	_, v, ok := r.lookup(name)
	return v, ok
}

func (r *Response) StatusCode() Status { return r.status }

func (r *Response) HeaderMap() map[string]string {
	return maps.Clone(r.headers)
}

func (r *Response) BodyBytes() []byte { return r.body }

func (r *Response) HasBody() bool { return r.hasBody }

func (r *Response) lookup(name string) (string, string, bool) {
	if v, ok := r.headers[name]; ok {
		return name, v, true
	}
	for k, v := range r.headers {
		if strings.EqualFold(k, name) {
			return k, v, true
		}
	}
	return "", "", false
}
