package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	return cfg
}

func TestLoadConfig_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestConfig_Contexts(t *testing.T) {
	cfg := testConfig(t)

	err := cfg.AddContext("local", &Context{
		Addr:      "localhost:8000",
		QueueSize: 8,
	})
	if err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	err = cfg.AddContext("prod", &Context{
		Addr:    "stream.example.com:443/feed",
		TLS:     true,
		Timeout: 10,
		Headers: map[string]string{"X-Token": "abc"},
	})
	if err != nil {
		t.Fatalf("AddContext: %v", err)
	}

	if err := cfg.UseContext("local"); err != nil {
		t.Fatalf("UseContext: %v", err)
	}

	// Reload from disk and verify round trip.
	loaded, err := LoadConfigWithPath(cfg.Path())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.CurrentContext != "local" {
		t.Errorf("CurrentContext = %q, want local", loaded.CurrentContext)
	}
	if len(loaded.ListContexts()) != 2 {
		t.Errorf("ListContexts = %v, want 2 entries", loaded.ListContexts())
	}

	ctx, err := loaded.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext: %v", err)
	}
	if ctx.Addr != "localhost:8000" || ctx.QueueSize != 8 {
		t.Errorf("context = %+v", ctx)
	}

	prod, err := loaded.GetContext("prod")
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if !prod.TLS || prod.Headers["X-Token"] != "abc" {
		t.Errorf("prod context = %+v", prod)
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("a", &Context{Addr: "a:1"})
	cfg.AddContext("b", &Context{Addr: "b:2"})
	cfg.UseContext("a")

	ctx, err := cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext(\"\"): %v", err)
	}
	if ctx.Name != "a" {
		t.Errorf("resolved %q, want a", ctx.Name)
	}

	ctx, err = cfg.ResolveContext("b")
	if err != nil {
		t.Fatalf("ResolveContext(b): %v", err)
	}
	if ctx.Name != "b" {
		t.Errorf("resolved %q, want b", ctx.Name)
	}

	if _, err := cfg.ResolveContext("missing"); err == nil {
		t.Error("ResolveContext(missing) succeeded, want error")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("a", &Context{Addr: "a:1"})
	cfg.UseContext("a")

	if err := cfg.DeleteContext("a"); err != nil {
		t.Fatalf("DeleteContext: %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after deleting it, want empty", cfg.CurrentContext)
	}
	if err := cfg.DeleteContext("a"); err == nil {
		t.Error("deleting a missing context succeeded, want error")
	}
}

func TestConfig_NoCurrentContext(t *testing.T) {
	cfg := testConfig(t)
	if _, err := cfg.GetCurrentContext(); err == nil {
		t.Error("GetCurrentContext on empty config succeeded, want error")
	}
}

func TestContext_URL(t *testing.T) {
	tests := []struct {
		ctx  Context
		want string
	}{
		{Context{Addr: "localhost:8000"}, "ws://localhost:8000"},
		{Context{Addr: "example.com:443/feed", TLS: true}, "wss://example.com:443/feed"},
	}
	for _, tt := range tests {
		if got := tt.ctx.URL(); got != tt.want {
			t.Errorf("URL() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfig_SavedYAMLShape(t *testing.T) {
	cfg := testConfig(t)
	cfg.AddContext("local", &Context{Addr: "localhost:8000", TLS: true})

	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"contexts:", "addr: localhost:8000", "tls: true"} {
		if !strings.Contains(text, want) {
			t.Errorf("saved yaml missing %q:\n%s", want, text)
		}
	}
}
