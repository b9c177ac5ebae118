package config

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Expression: `method == "GET"`}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	if cfg.DenyStatusCode != defaultDenyStatusCode {
		t.Errorf("DenyStatusCode = %d, want %d", cfg.DenyStatusCode, defaultDenyStatusCode)
	}
	if cfg.DenyBody != defaultDenyBody {
		t.Errorf("DenyBody = %q, want %q", cfg.DenyBody, defaultDenyBody)
	}
}

func TestNormalizeRequiresExpression(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Normalize(); err == nil {
		t.Error("Normalize() succeeded with empty expression, want error")
	}
}

func TestNormalizeValidatesStatusCodeRange(t *testing.T) {
	for _, tc := range []struct {
		name    string
		code    int
		wantErr bool
	}{
		{"below range", 99, true},
		{"above range", 600, true},
		{"minimum valid", 100, false},
		{"maximum valid", 599, false},
		{"explicit 200", 200, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Expression: `true`, DenyStatusCode: tc.code}
			err := cfg.Normalize()
			if tc.wantErr && err == nil {
				t.Errorf("Normalize() with code %d succeeded, want error", tc.code)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Normalize() with code %d failed: %v", tc.code, err)
			}
		})
	}
}

func TestNormalizeLeavesExplicitDenyBody(t *testing.T) {
	cfg := &Config{Expression: `true`, DenyBody: "custom body"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	if cfg.DenyBody != "custom body" {
		t.Errorf("DenyBody = %q, want unchanged %q", cfg.DenyBody, "custom body")
	}
}
