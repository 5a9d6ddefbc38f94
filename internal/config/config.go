package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen          = ":8080"
	DefaultBaseURL         = "http://localhost:4000"
	DefaultTasksPath       = "/api/tasks"
	DefaultExampleCasePath = "/get-example-case"
	DefaultAppTitle        = "HMCTS Task Management System"
)

type UserConfig struct {
	Username     string `yaml:"username" toml:"username"`
	PasswordHash string `yaml:"passwordHash" toml:"passwordHash"` // bcrypt hash
}

type OAuth2Config struct {
	TokenURL     string   `yaml:"tokenURL" toml:"tokenURL"`
	ClientID     string   `yaml:"clientID" toml:"clientID"`
	ClientSecret string   `yaml:"clientSecret" toml:"clientSecret"`
	Scopes       []string `yaml:"scopes" toml:"scopes"`
}

// Enabled reports whether backend calls should carry a client-credentials token.
func (o OAuth2Config) Enabled() bool {
	return o.TokenURL != "" && o.ClientID != ""
}

type APIConfig struct {
	BaseURL           string       `yaml:"baseURL" toml:"baseURL"`
	TasksPath         string       `yaml:"tasksPath" toml:"tasksPath"`
	ExampleCasePath   string       `yaml:"exampleCasePath" toml:"exampleCasePath"`
	ValidateResponses bool         `yaml:"validateResponses" toml:"validateResponses"`
	OAuth2            OAuth2Config `yaml:"oauth2" toml:"oauth2"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type UIConfig struct {
	AppTitle       string `yaml:"appTitle" toml:"appTitle"`
	RenderMarkdown bool   `yaml:"renderMarkdown" toml:"renderMarkdown"`
}

type Config struct {
	Listen  string        `yaml:"listen" toml:"listen"`
	API     APIConfig     `yaml:"api" toml:"api"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Users   []UserConfig  `yaml:"users" toml:"users"`
}

func Default() *Config {
	return &Config{
		Listen: DefaultListen,
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			TasksPath:         DefaultTasksPath,
			ExampleCasePath:   DefaultExampleCasePath,
			ValidateResponses: true,
		},
		Logging: LoggingConfig{Level: "info"},
		UI:      UIConfig{AppTitle: DefaultAppTitle},
		Users:   []UserConfig{},
	}
}

// Load reads an optional yaml or toml file. An empty path or a missing file
// yields the defaults; env overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	applyFallbacks(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TASKWEB_OAUTH2_CLIENT_SECRET"); v != "" {
		cfg.API.OAuth2.ClientSecret = v
	}
}

// applyFallbacks restores defaults a file may have blanked out.
func applyFallbacks(cfg *Config) {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.TasksPath == "" {
		cfg.API.TasksPath = DefaultTasksPath
	}
	if cfg.API.ExampleCasePath == "" {
		cfg.API.ExampleCasePath = DefaultExampleCasePath
	}
	if cfg.UI.AppTitle == "" {
		cfg.UI.AppTitle = DefaultAppTitle
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.API.BaseURL))
	if err != nil {
		return fmt.Errorf("api.baseURL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.baseURL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	for i, usr := range c.Users {
		if usr.Username == "" || usr.PasswordHash == "" {
			return fmt.Errorf("users[%d]: username and passwordHash are required", i)
		}
	}
	return nil
}

// TasksURL is the collection endpoint of the backend, e.g. http://localhost:4000/api/tasks.
func (c *Config) TasksURL() string {
	return joinURL(c.API.BaseURL, c.API.TasksPath)
}

func (c *Config) ExampleCaseURL() string {
	return joinURL(c.API.BaseURL, c.API.ExampleCasePath)
}

func joinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if path == "" || path == "/" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
