package core

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Params map[string]string

type paramsKey struct{}

func WithParams(ctx context.Context, params Params) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

func ParamsFromContext(ctx context.Context) Params {
	params, _ := ctx.Value(paramsKey{}).(Params)
	return params
}

// Param returns the named path parameter of the matched route, or "".
func Param(r *http.Request, key string) string {
	return ParamsFromContext(r.Context())[key]
}

type segment struct {
	literal string
	param   string
}

func (s segment) isParam() bool {
	return s.param != ""
}

type Route struct {
	Method     string
	Pattern    string
	URLPattern *regexp.Regexp
	ParamKeys  []string
	Handler    http.Handler
	segments   []segment
}

type mount struct {
	prefix   string
	segments []string
	handler  http.Handler
}

// Router is the route table. It is filled at startup and only read while
// serving, so it needs no locking.
type Router struct {
	routes []Route
	mounts []mount
}

func NewRouter() *Router {
	return &Router{}
}

func parsePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, errors.Wrapf(ErrInvalidPattern, "%q must start with /", pattern)
	}
	if pattern == "/" {
		return nil, nil
	}
	if strings.HasSuffix(pattern, "/") {
		return nil, errors.Wrapf(ErrInvalidPattern, "%q has a trailing slash", pattern)
	}

	seen := map[string]bool{}
	var segments []segment
	for _, part := range strings.Split(pattern[1:], "/") {
		switch {
		case part == "":
			return nil, errors.Wrapf(ErrInvalidPattern, "%q has an empty segment", pattern)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			key := part[1 : len(part)-1]
			if key == "" || strings.ContainsAny(key, "{}") {
				return nil, errors.Wrapf(ErrInvalidPattern, "%q has a bad capture %q", pattern, part)
			}
			if seen[key] {
				return nil, errors.Wrapf(ErrInvalidPattern, "%q repeats capture %q", pattern, key)
			}
			seen[key] = true
			segments = append(segments, segment{param: key})
		case strings.ContainsAny(part, "{}"):
			return nil, errors.Wrapf(ErrInvalidPattern, "%q has a bad segment %q", pattern, part)
		default:
			segments = append(segments, segment{literal: part})
		}
	}
	return segments, nil
}

func compilePattern(segments []segment) (*regexp.Regexp, []string) {
	if len(segments) == 0 {
		return regexp.MustCompile("^/$"), nil
	}
	var b strings.Builder
	paramKeys := []string{}
	b.WriteString("^")
	for _, seg := range segments {
		b.WriteString("/")
		if seg.isParam() {
			paramKeys = append(paramKeys, seg.param)
			b.WriteString("([^/]+)")
		} else {
			b.WriteString(regexp.QuoteMeta(seg.literal))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String()), paramKeys
}

// overlaps reports whether some path could match both segment lists.
func overlaps(a, b []segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].isParam() || b[i].isParam() {
			continue
		}
		if a[i].literal != b[i].literal {
			return false
		}
	}
	return true
}

func shadowedBy(route []segment, m mount) bool {
	if len(route) <= len(m.segments) {
		return false
	}
	for i, lit := range m.segments {
		if !route[i].isParam() && route[i].literal != lit {
			return false
		}
	}
	return true
}

// Register adds a route. Patterns that could match the same path for the
// same method are rejected with ErrRouteConflict.
func (r *Router) Register(method, pattern string, handler http.Handler) error {
	if method == "" || handler == nil {
		return errors.Wrapf(ErrInvalidPattern, "%s %q needs a method and a handler", method, pattern)
	}
	segments, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	for _, existing := range r.routes {
		if existing.Method == method && overlaps(existing.segments, segments) {
			return errors.Wrapf(ErrRouteConflict, "%s %s overlaps %s %s", method, pattern, existing.Method, existing.Pattern)
		}
	}
	for _, m := range r.mounts {
		if shadowedBy(segments, m) {
			return errors.Wrapf(ErrRouteConflict, "%s %s is under mount %s", method, pattern, m.prefix)
		}
	}

	regex, paramKeys := compilePattern(segments)
	r.routes = append(r.routes, Route{
		Method:     method,
		Pattern:    pattern,
		URLPattern: regex,
		ParamKeys:  paramKeys,
		Handler:    handler,
		segments:   segments,
	})
	return nil
}

// Mount routes every path starting with prefix to handler, for any method.
// The prefix must start and end with a slash.
func (r *Router) Mount(prefix string, handler http.Handler) error {
	if len(prefix) < 2 || !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") || handler == nil {
		return errors.Wrapf(ErrInvalidPattern, "bad mount prefix %q", prefix)
	}
	segments, err := parsePattern(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	m := mount{prefix: prefix, handler: handler}
	for _, seg := range segments {
		if seg.isParam() {
			return errors.Wrapf(ErrInvalidPattern, "mount prefix %q cannot capture", prefix)
		}
		m.segments = append(m.segments, seg.literal)
	}

	for _, existing := range r.mounts {
		if strings.HasPrefix(existing.prefix, prefix) || strings.HasPrefix(prefix, existing.prefix) {
			return errors.Wrapf(ErrRouteConflict, "mount %s overlaps mount %s", prefix, existing.prefix)
		}
	}
	for _, route := range r.routes {
		if shadowedBy(route.segments, m) {
			return errors.Wrapf(ErrRouteConflict, "mount %s shadows %s %s", prefix, route.Method, route.Pattern)
		}
	}

	r.mounts = append(r.mounts, m)
	return nil
}

// Match resolves a request against its escaped path, so an encoded slash
// stays inside one segment. Captured values are returned unescaped. On a miss
// handler is nil and allowed lists the methods registered for the path, if
// any.
func (r *Router) Match(method, path string) (handler http.Handler, params Params, allowed []string) {
	for _, m := range r.mounts {
		if strings.HasPrefix(path, m.prefix) {
			return m.handler, Params{}, nil
		}
	}

	methods := map[string]bool{}
	for _, route := range r.routes {
		matches := route.URLPattern.FindStringSubmatch(path)
		if matches == nil {
			continue
		}
		if route.Method != method && !(method == http.MethodHead && route.Method == http.MethodGet) {
			methods[route.Method] = true
			continue
		}
		params, ok := unescapeParams(route.ParamKeys, matches[1:])
		if !ok {
			continue
		}
		return route.Handler, params, nil
	}

	for m := range methods {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	return nil, nil, allowed
}

func unescapeParams(keys, values []string) (Params, bool) {
	params := Params{}
	for i, key := range keys {
		value, err := url.PathUnescape(values[i])
		if err != nil {
			return nil, false
		}
		params[key] = value
	}
	return params, true
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, params, allowed := r.Match(req.Method, req.URL.EscapedPath())
	if handler == nil {
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		http.NotFound(w, req)
		return
	}
	handler.ServeHTTP(w, req.WithContext(WithParams(req.Context(), params)))
}

type RouteInfo struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// Routes lists the registered routes and mounts in registration order,
// mounts last with method "*".
func (r *Router) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(r.routes)+len(r.mounts))
	for _, route := range r.routes {
		infos = append(infos, RouteInfo{Method: route.Method, Pattern: route.Pattern})
	}
	for _, m := range r.mounts {
		infos = append(infos, RouteInfo{Method: "*", Pattern: m.prefix + "*"})
	}
	return infos
}
