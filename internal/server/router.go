package server

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
)

type HandlerFunc func(request *Request) (*Response, error)

// Handle lets a plain function stand in wherever a Handler is expected.
func (f HandlerFunc) Handle() HandlerFunc {
	return f
}

type Handler interface {
	Handle() HandlerFunc
}

// Wildcard kinds accepted inside a pattern segment.
var wildcardKinds = map[string]string{
	"":     `\w+`,
	"file": `[\w.\-]+`,
}

var wildcardName = regexp.MustCompile(`^\w+$`)

type route struct {
	pattern  string
	re       *regexp.Regexp
	handlers map[Method]HandlerFunc
}

// Router resolves requests against a route table that cannot change once
// built, so Match is safe for concurrent use without locking.
type Router struct {
	routes []*route
}

// RouterBuilder collects routes in registration order. Errors are deferred
// to Build so registrations can be chained.
type RouterBuilder struct {
	routes []*route
	index  map[string]*route
	errs   []error
}

func NewRouterBuilder() *RouterBuilder {
	return &RouterBuilder{index: make(map[string]*route)}
}

// Handle registers handler for method on pattern. A pattern registered again
// keeps its original position and gains the new method.
func (b *RouterBuilder) Handle(pattern string, method Method, handler Handler) *RouterBuilder {
	if handler == nil {
		b.errs = append(b.errs, fmt.Errorf("route %s %s: nil handler", method, pattern))
		return b
	}
	if method == MethodInvalid {
		b.errs = append(b.errs, fmt.Errorf("route %s: invalid method", pattern))
		return b
	}

	r, ok := b.index[pattern]
	if !ok {
		re, err := compilePattern(pattern)
		if err != nil {
			b.errs = append(b.errs, err)
			return b
		}
		r = &route{pattern: pattern, re: re, handlers: make(map[Method]HandlerFunc)}
		b.index[pattern] = r
		b.routes = append(b.routes, r)
	}
	if _, exists := r.handlers[method]; exists {
		b.errs = append(b.errs, fmt.Errorf("route %s %s: already registered", method, pattern))
		return b
	}
	r.handlers[method] = handler.Handle()
	return b
}

func (b *RouterBuilder) HandleFunc(pattern string, method Method, fn func(*Request) (*Response, error)) *RouterBuilder {
	if fn == nil {
		return b.Handle(pattern, method, nil)
	}
	return b.Handle(pattern, method, HandlerFunc(fn))
}

func (b *RouterBuilder) Build() (*Router, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	// The builder stays usable, so the router gets its own handler maps.
	routes := make([]*route, 0, len(b.routes))
	for _, r := range b.routes {
		routes = append(routes, &route{pattern: r.pattern, re: r.re, handlers: maps.Clone(r.handlers)})
	}
	return &Router{routes: routes}, nil
}

// Match returns the handler of the first route, in registration order, whose
// pattern matches the whole path and which has a handler for the method.
// A path match with the wrong method keeps scanning.
func (r *Router) Match(request *Request) (HandlerFunc, map[string]string, bool) {
	for _, rt := range r.routes {
		m := rt.re.FindStringSubmatch(request.Path())
		if m == nil {
			continue
		}
		handler, ok := rt.handlers[request.Method()]
		if !ok {
			continue
		}

		var params map[string]string
		for i, name := range rt.re.SubexpNames() {
			if name == "" {
				continue
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = m[i]
		}
		return handler, params, true
	}
	return nil, nil, false
}

func (r *Router) Patterns() []string {
	patterns := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		patterns = append(patterns, rt.pattern)
	}
	return patterns
}

// compilePattern turns "/files/{name:file}" into an anchored expression.
// Literal segments are quoted; at most one segment may be a wildcard.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q: must start with /", pattern)
	}

	segments := strings.Split(pattern[1:], "/")
	wildcards := 0
	for i, seg := range segments {
		if !strings.ContainsAny(seg, "{}") {
			segments[i] = regexp.QuoteMeta(seg)
			continue
		}
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") || strings.Count(seg, "{") != 1 || strings.Count(seg, "}") != 1 {
			return nil, fmt.Errorf("pattern %q: malformed wildcard segment %q", pattern, seg)
		}
		wildcards++
		if wildcards > 1 {
			return nil, fmt.Errorf("pattern %q: more than one wildcard", pattern)
		}

		name, kind, _ := strings.Cut(seg[1:len(seg)-1], ":")
		if !wildcardName.MatchString(name) {
			return nil, fmt.Errorf("pattern %q: invalid wildcard name %q", pattern, name)
		}
		expr, ok := wildcardKinds[kind]
		if !ok {
			return nil, fmt.Errorf("pattern %q: unknown wildcard kind %q", pattern, kind)
		}
		segments[i] = fmt.Sprintf("(?P<%s>%s)", name, expr)
	}

	return regexp.Compile("^/" + strings.Join(segments, "/") + "$")
}
