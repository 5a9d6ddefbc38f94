// Package api is the HTTP client for the remote task backend. Each method
// issues exactly one request; there are no retries and no timeouts beyond
// what the caller's context and the transport impose.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/elpatron68/task-web/internal/config"
	applog "github.com/elpatron68/task-web/internal/log"
	"github.com/elpatron68/task-web/internal/tasks"
)

const maxBodyBytes = 4 << 20

// ExampleCase is the free-form object served by the example endpoint.
type ExampleCase map[string]any

type Options struct {
	BaseURL        string
	TasksURL       string
	ExampleCaseURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient        *http.Client
	ValidateResponses bool
}

type Client struct {
	http       *http.Client
	baseURL    string
	tasksURL   string
	exampleURL string
	validator  *validator
}

func New(opts Options) (*Client, error) {
	if opts.TasksURL == "" {
		return nil, errors.New("api: tasks url is empty")
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		http:       hc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tasksURL:   strings.TrimRight(opts.TasksURL, "/"),
		exampleURL: opts.ExampleCaseURL,
	}
	if c.baseURL == "" {
		c.baseURL = c.tasksURL
	}
	if opts.ValidateResponses {
		v, err := newValidator()
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	return c, nil
}

// NewFromConfig builds a client for cfg. When OAuth2 client credentials are
// configured every request carries a bearer token from that flow.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	opts := Options{
		BaseURL:           cfg.API.BaseURL,
		TasksURL:          cfg.TasksURL(),
		ExampleCaseURL:    cfg.ExampleCaseURL(),
		ValidateResponses: cfg.API.ValidateResponses,
	}
	if o := cfg.API.OAuth2; o.Enabled() {
		cc := clientcredentials.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			TokenURL:     o.TokenURL,
			Scopes:       o.Scopes,
		}
		opts.HTTPClient = cc.Client(ctx)
		applog.Infof("api: using oauth2 client credentials (client %s)", o.ClientID)
	}
	return New(opts)
}

// BaseURL is the backend root, used in user-facing hints.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) taskURL(id int64) string {
	return c.tasksURL + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListTasks(ctx context.Context) ([]tasks.Task, error) {
	var out []tasks.Task
	if err := c.do(ctx, http.MethodGet, c.tasksURL, nil, &out, c.listSchema()); err != nil {
		return nil, err
	}
	if out == nil {
		out = []tasks.Task{}
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*tasks.Task, error) {
	if id <= 0 {
		return nil, tasks.ErrInvalidID
	}
	var t tasks.Task
	if err := c.do(ctx, http.MethodGet, c.taskURL(id), nil, &t, c.taskSchema()); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, req tasks.CreateRequest) (*tasks.Task, error) {
	var t tasks.Task
	if err := c.do(ctx, http.MethodPost, c.tasksURL, req, &t, nil); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status tasks.Status) error {
	if id <= 0 {
		return tasks.ErrInvalidID
	}
	if !status.Valid() {
		return fmt.Errorf("api: invalid status %q", status)
	}
	return c.do(ctx, http.MethodPut, c.taskURL(id)+"/status", tasks.StatusUpdate{Status: status}, nil, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return tasks.ErrInvalidID
	}
	return c.do(ctx, http.MethodDelete, c.taskURL(id), nil, nil, nil)
}

func (c *Client) ExampleCase(ctx context.Context) (ExampleCase, error) {
	if c.exampleURL == "" {
		return nil, errors.New("api: example case url not configured")
	}
	var out ExampleCase
	if err := c.do(ctx, http.MethodGet, c.exampleURL, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping succeeds when the backend answers at all, whatever the status.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: backend %s unreachable: %w", c.baseURL, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	return nil
}

func (c *Client) taskSchema() *jsonschema.Schema {
	if c.validator == nil {
		return nil
	}
	return c.validator.task
}

func (c *Client) listSchema() *jsonschema.Schema {
	if c.validator == nil {
		return nil
	}
	return c.validator.list
}

// do sends one request. A non-nil schema is checked against the raw body
// before it is decoded into out.
func (c *Client) do(ctx context.Context, method, url string, in, out any, schema *jsonschema.Schema) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	applog.Infof("api: %s %s", method, url)
	resp, err := c.http.Do(req)
	if err != nil {
		applog.Warnf("api: %s %s failed: %v", method, url, err)
		return fmt.Errorf("api: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		applog.Warnf("api: %s %s status=%d body=%q", method, url, resp.StatusCode, truncate(string(raw), 300))
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: string(raw)}
	}
	applog.Debugf("api: %s %s status=%d bytes=%d", method, url, resp.StatusCode, len(raw))

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if schema != nil {
		if err := c.validator.validate(schema, raw); err != nil {
			applog.Warnf("api: %s %s: %v", method, url, err)
			return err
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
