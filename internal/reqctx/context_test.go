package reqctx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/users/42?x=1", nil)
	req.Header.Add("X-Scopes", "read")
	req.Header.Add("X-Scopes", "write")

	ctx := FromRequest(req)

	if got, want := ctx.Method(), http.MethodPost; got != want {
		t.Errorf("Method() = %q, want %q", got, want)
	}
	if got, want := ctx.Path(), "/users/42"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if got, want := ctx.Host(), "example.com"; got != want {
		t.Errorf("Host() = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"read", "write"}, ctx.HeaderValues("x-scopes")); diff != "" {
		t.Errorf("HeaderValues() mismatch (-want +got):\n%s", diff)
	}
	if got := ctx.HeaderValues("x-missing"); got != nil {
		t.Errorf("HeaderValues() for missing header = %v, want nil", got)
	}
}

func TestFromRequestHostFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Host = ""
	ctx := FromRequest(req)
	if got, want := ctx.Host(), "example.com"; got != want {
		t.Errorf("Host() = %q, want %q (from URL)", got, want)
	}
}

func TestFromTestRequestDefaults(t *testing.T) {
	ctx := FromTestRequest(TestRequest{})
	if got, want := ctx.Method(), "GET"; got != want {
		t.Errorf("Method() default = %q, want %q", got, want)
	}
	if got, want := ctx.Path(), "/"; got != want {
		t.Errorf("Path() default = %q, want %q", got, want)
	}
	if got, want := ctx.Host(), ""; got != want {
		t.Errorf("Host() default = %q, want %q", got, want)
	}
}

func TestFromTestRequestHeadersNotSplit(t *testing.T) {
	ctx := FromTestRequest(TestRequest{
		Headers: map[string]string{"X-Scopes": "read, write"},
	})
	if diff := cmp.Diff([]string{"read, write"}, ctx.HeaderValues("x-scopes")); diff != "" {
		t.Errorf("HeaderValues() mismatch (-want +got):\n%s", diff)
	}
}
