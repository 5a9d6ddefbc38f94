// Package server renders the task pages and forwards every task operation
// to the backend service.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elpatron68/task-web/internal/api"
	"github.com/elpatron68/task-web/internal/auth"
	"github.com/elpatron68/task-web/internal/config"
	applog "github.com/elpatron68/task-web/internal/log"
	"github.com/elpatron68/task-web/internal/tasks"
)

// TaskService is the backend as seen by the handlers. *api.Client
// implements it.
type TaskService interface {
	ListTasks(ctx context.Context) ([]tasks.Task, error)
	GetTask(ctx context.Context, id int64) (*tasks.Task, error)
	CreateTask(ctx context.Context, req tasks.CreateRequest) (*tasks.Task, error)
	UpdateStatus(ctx context.Context, id int64, status tasks.Status) error
	DeleteTask(ctx context.Context, id int64) error
	ExampleCase(ctx context.Context) (api.ExampleCase, error)
	BaseURL() string
}

var _ TaskService = (*api.Client)(nil)

type Server struct {
	svc    TaskService
	cfg    *config.Config
	users  auth.UserStore
	router *gin.Engine
	pages  map[string]*template.Template
	now    func() time.Time
}

// NewServer parses all templates and registers the routes. users may be nil,
// in which case no authentication is applied.
func NewServer(svc TaskService, cfg *config.Config, users auth.UserStore) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("server: task service is nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{svc: svc, cfg: cfg, users: users, now: time.Now}
	pages, err := parsePages(s.funcMap())
	if err != nil {
		return nil, err
	}
	s.pages = pages
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(requestID(), requestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		applog.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong")
		c.Abort()
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/favicon.svg", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/svg+xml", []byte(faviconSVG))
	})
	r.GET("/favicon.ico", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/favicon.svg") })

	r.GET("/", s.handleHome)
	r.GET("/tasks", s.handleList)
	r.GET("/tasks/new", s.handleNew)
	r.POST("/tasks", s.handleCreate)
	r.GET("/tasks/:id", s.handleShow)
	r.POST("/tasks/:id/status", s.handleUpdateStatus)
	r.POST("/tasks/:id/delete", s.handleDelete)

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})
	s.router = r
}

// Handler returns the root handler. When users are configured every route
// except /healthz requires basic auth.
func (s *Server) Handler() http.Handler {
	if s.users == nil || s.users.Len() == 0 {
		return s.router
	}
	protected := auth.BasicAuthMiddleware(s.users, s.cfg.UI.AppTitle, s.router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			s.router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

func activeFromPath(p string) string {
	switch {
	case p == "/":
		return "home"
	case p == "/tasks/new":
		return "new"
	case strings.HasPrefix(p, "/tasks"):
		return "tasks"
	}
	return ""
}
