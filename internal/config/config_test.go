package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bitsctl.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
name = "decoder-a"

[limits]
max_depth = 64

[server]
addr = "127.0.0.1:9401"
cors_origins = [" http://localhost:5173 ", ""]
api_token = " s3cret "

[log]
level = "debug"
json = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "decoder-a" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.Limits.Packet.MaxDepth != 64 {
		t.Fatalf("unexpected max depth: %d", cfg.Limits.Packet.MaxDepth)
	}
	if cfg.Limits.MaxHexDigits != Default().Limits.MaxHexDigits {
		t.Fatalf("expected default max hex digits, got %d", cfg.Limits.MaxHexDigits)
	}
	if cfg.Server.Addr != "127.0.0.1:9401" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if diff := cmp.Diff([]string{"http://localhost:5173"}, cfg.Server.CorsOrigins); diff != "" {
		t.Fatalf("cors origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.APIToken != "s3cret" {
		t.Fatalf("unexpected api token: %q", cfg.Server.APIToken)
	}
	if diff := cmp.Diff(Default().Server.TrustedProxies, cfg.Server.TrustedProxies); diff != "" {
		t.Fatalf("trusted proxies mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.Level != zerolog.DebugLevel || !cfg.Log.JSON || !cfg.Log.Timestamp {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}

	lc := cfg.Logging()
	if lc.Level != zerolog.DebugLevel || !lc.JSON {
		t.Fatalf("unexpected logging config: %+v", lc)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, "colour = \"blue\"\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	if _, err := Load(writeConfig(t, "[log]\nlevel = \"loud\"\n")); err == nil {
		t.Fatalf("expected level parse error")
	}
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	cases := []string{
		"[limits]\nmax_depth = 0\n",
		"[limits]\nmax_hex_digits = -2\n",
		"[limits]\nmax_hex_digits = 7\n",
		"[server]\naddr = \" \"\n",
		"name = \"\"\n",
	}
	for _, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Fatalf("expected validation error for %q", content)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected load error")
	}
}
