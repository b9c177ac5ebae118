// Package reqctx builds the per-request evaluation context the policy
// engine evaluates expressions against, normalizing method/path/host and
// case-folding headers so a live request and a declarative test case are
// indistinguishable to the evaluator.
package reqctx

import (
	"net/http"
	"strings"
)

// Context is a per-request bundle of method, path, host, and a
// case-insensitive header map. It is built once, consumed once by a
// single Program.Eval call, and discarded; it is never shared across
// requests.
type Context struct {
	method  string
	path    string
	host    string
	headers map[string][]string // keyed by lowercased header name
}

// Method, Path, and Host implement lang.Context.
func (c *Context) Method() string { return c.method }
func (c *Context) Path() string   { return c.path }
func (c *Context) Host() string   { return c.host }

// HeaderValues implements lang.Context. lowerName must already be
// lowercased; the evaluator is responsible for folding case before
// calling in, so the context never has to guess a casing convention.
func (c *Context) HeaderValues(lowerName string) []string {
	return c.headers[lowerName]
}

// FromRequest builds a Context from a live *http.Request. The path is the
// request URI path without its query string; headers preserve multi-value
// semantics in header-declaration order.
func FromRequest(r *http.Request) *Context {
	headers := make(map[string][]string, len(r.Header))
	for name, values := range r.Header {
		key := strings.ToLower(name)
		headers[key] = append(headers[key], values...)
	}

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}

	return &Context{
		method:  r.Method,
		path:    r.URL.Path,
		host:    host,
		headers: headers,
	}
}

// TestRequest is the declarative shape of a test case's request, as
// decoded from configuration (see config.TestRequest). Zero-value fields
// mean "use the default", applied only here — live contexts never go
// through this path and so never see these defaults.
type TestRequest struct {
	Method  string
	Path    string
	Host    string
	Headers map[string]string // header name -> single raw value
}

// FromTestRequest builds a Context from a declarative TestRequest, applying
// defaults for missing method/path/host. Each supplied header is stored as
// a single-element value list keyed by its lowercased name; headerList's
// comma-splitting is the expression language's job, not this builder's, so
// the same header value reaches the evaluator whether it came from a live
// request or a test case.
func FromTestRequest(tr TestRequest) *Context {
	method := tr.Method
	if method == "" {
		method = "GET"
	}
	path := tr.Path
	if path == "" {
		path = "/"
	}

	headers := make(map[string][]string, len(tr.Headers))
	for name, value := range tr.Headers {
		headers[strings.ToLower(name)] = []string{value}
	}

	return &Context{
		method:  method,
		path:    path,
		host:    tr.Host,
		headers: headers,
	}
}
