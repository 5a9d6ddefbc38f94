package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasReasonableValues(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8080" {
		t.Fatalf("expected default listen :8080, got %q", cfg.Listen)
	}
	if cfg.API.BaseURL != "http://localhost:4000" {
		t.Fatalf("unexpected default base url %q", cfg.API.BaseURL)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
	if !cfg.API.ValidateResponses {
		t.Fatalf("expected response validation on by default")
	}
	if cfg.TasksURL() != "http://localhost:4000/api/tasks" {
		t.Fatalf("unexpected tasks url %q", cfg.TasksURL())
	}
	if cfg.ExampleCaseURL() != "http://localhost:4000/get-example-case" {
		t.Fatalf("unexpected example url %q", cfg.ExampleCaseURL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:9000/")
	t.Setenv("TASKWEB_OAUTH2_CLIENT_SECRET", "s3cret")

	cfg, err := Load("__does_not_exist.yaml")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.BaseURL != "http://backend:9000/" {
		t.Fatalf("base url env override failed: %q", cfg.API.BaseURL)
	}
	if cfg.TasksURL() != "http://backend:9000/api/tasks" {
		t.Fatalf("tasks url should tolerate trailing slash: %q", cfg.TasksURL())
	}
	if cfg.API.OAuth2.ClientSecret != "s3cret" {
		t.Fatalf("client secret env override failed")
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	dir := t.TempDir()
	yaml := []byte("listen: '127.0.0.1:9000'\napi:\n  baseURL: 'https://tasks.example.org'\n  tasksPath: '/v2/tasks'\n  validateResponses: false\nlogging:\n  level: 'warn'\nui:\n  renderMarkdown: true\nusers:\n  - username: alice\n    passwordHash: '$2a$10$abc'\n")
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, yaml, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9000" {
		t.Fatalf("listen not loaded: %q", cfg.Listen)
	}
	if cfg.TasksURL() != "https://tasks.example.org/v2/tasks" {
		t.Fatalf("tasks url: %q", cfg.TasksURL())
	}
	if cfg.API.ExampleCasePath != DefaultExampleCasePath {
		t.Fatalf("example path should fall back to default, got %q", cfg.API.ExampleCasePath)
	}
	if cfg.API.ValidateResponses {
		t.Fatalf("validateResponses should be false from file")
	}
	if cfg.Logging.Level != "warn" || !cfg.UI.RenderMarkdown {
		t.Fatalf("logging/ui not loaded: %+v %+v", cfg.Logging, cfg.UI)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Username != "alice" {
		t.Fatalf("users not loaded: %+v", cfg.Users)
	}
	if cfg.UI.AppTitle != DefaultAppTitle {
		t.Fatalf("app title fallback failed: %q", cfg.UI.AppTitle)
	}
}

func TestLoadFromTOML(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	dir := t.TempDir()
	data := []byte("listen = ':7070'\n\n[api]\nbaseURL = 'http://10.0.0.5:4000'\n\n[api.oauth2]\ntokenURL = 'http://idam/token'\nclientID = 'task-web'\nscopes = ['tasks']\n")
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":7070" || cfg.API.BaseURL != "http://10.0.0.5:4000" {
		t.Fatalf("toml values not loaded: %+v", cfg)
	}
	if !cfg.API.OAuth2.Enabled() || len(cfg.API.OAuth2.Scopes) != 1 {
		t.Fatalf("oauth2 section not loaded: %+v", cfg.API.OAuth2)
	}
	if !cfg.API.ValidateResponses {
		t.Fatalf("validateResponses default should survive a file without it")
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "localhost:4000")
	if _, err := Load("__does_not_exist.yaml"); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}

func TestLoadRejectsIncompleteUser(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("users:\n  - username: bob\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for user without hash")
	}
}
