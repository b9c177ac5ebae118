package harness

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/jaqx0r/authzpolicy/internal/config"
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestRunAllTestsPass(t *testing.T) {
	cfg := &config.Config{
		Expression: `method == "GET" OR method == "HEAD"`,
		Tests: []config.TestCase{
			{Name: "get allowed", Request: config.TestRequest{Method: "GET"}, Expect: true},
			{Name: "post denied", Request: config.TestRequest{Method: "POST"}, Expect: false},
		},
	}
	logger, _ := testLogger()

	program, err := Run(cfg, logger)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if program == nil {
		t.Fatal("Run() returned a nil Program on success")
	}
}

func TestRunFailsClosedOnTestMismatch(t *testing.T) {
	cfg := &config.Config{
		Expression: `method == "GET"`,
		Tests: []config.TestCase{
			{Name: "wrongly expects deny", Request: config.TestRequest{Method: "GET"}, Expect: false},
		},
	}
	logger, buf := testLogger()

	program, err := Run(cfg, logger)
	if err == nil {
		t.Fatal("Run() succeeded despite a failing test case, want error")
	}
	if program != nil {
		t.Error("Run() returned a non-nil Program despite failure")
	}
	if !strings.Contains(buf.String(), "policy test failed") {
		t.Errorf("log output missing failure line:\n%s", buf.String())
	}
}

func TestRunFailsClosedOnCompileError(t *testing.T) {
	cfg := &config.Config{Expression: `not valid syntax ===`}
	logger, _ := testLogger()

	if _, err := Run(cfg, logger); err == nil {
		t.Fatal("Run() succeeded despite a malformed expression, want error")
	}
}

func TestRunTestsReportsEvalResults(t *testing.T) {
	cfg := &config.Config{Expression: `path startsWith "/admin"`}
	program, err := Run(cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("Run() with no tests failed: %v", err)
	}

	results := RunTests(program, []config.TestCase{
		{Name: "admin path", Request: config.TestRequest{Path: "/admin/x"}, Expect: true},
		{Name: "other path", Request: config.TestRequest{Path: "/other"}, Expect: false},
	})
	for _, r := range results {
		if !r.Passed() {
			t.Errorf("case %q did not pass: expect=%v got=%v err=%v", r.Name, r.Expect, r.Got, r.Err)
		}
	}
}
