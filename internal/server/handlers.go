package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elpatron68/task-web/internal/api"
	applog "github.com/elpatron68/task-web/internal/log"
	"github.com/elpatron68/task-web/internal/tasks"
)

func (s *Server) handleHome(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{}

	example, err := s.svc.ExampleCase(ctx)
	if err != nil {
		applog.Warnf("home: example case: %v", err)
		data["ErrorMessage"] = "Some services may be unavailable"
	} else {
		data["Example"] = example
	}

	list, err := s.svc.ListTasks(ctx)
	if err != nil {
		applog.Warnf("home: task summary: %v", err)
	} else {
		sum := tasks.Summarize(list, s.now())
		data["Summary"] = &sum
	}

	s.render(c, http.StatusOK, "home", s.page(c, s.cfg.UI.AppTitle, data))
}

func (s *Server) handleList(c *gin.Context) {
	list, err := s.svc.ListTasks(c.Request.Context())
	data := gin.H{"Tasks": list}
	if err != nil {
		applog.Errorf("list tasks: %v", err)
		data["Tasks"] = []tasks.Task{}
		data["ErrorMessage"] = "Failed to load tasks. " + s.listFailureHint(err)
	}
	s.render(c, http.StatusOK, "index", s.page(c, "Task Management", data))
}

func (s *Server) listFailureHint(err error) string {
	switch {
	case api.IsConnRefused(err):
		return "Please check if the backend is running on " + s.svc.BaseURL()
	case api.StatusCode(err) != 0:
		return fmt.Sprintf("Server responded with status %d", api.StatusCode(err))
	case api.IsTransport(err):
		return ""
	}
	return "Please try again."
}

func (s *Server) handleNew(c *gin.Context) {
	s.renderForm(c, tasks.Form{Status: string(tasks.StatusPending)}, tasks.FieldErrors{})
}

func (s *Server) renderForm(c *gin.Context, form tasks.Form, errs tasks.FieldErrors) {
	selected := form.Status
	if selected == "" {
		selected = string(tasks.StatusPending)
	}
	s.render(c, http.StatusOK, "new", s.page(c, "Create New Task", gin.H{
		"Task":           form,
		"Errors":         errs,
		"Statuses":       tasks.Statuses,
		"SelectedStatus": selected,
	}))
}

func (s *Server) handleCreate(c *gin.Context) {
	form := tasks.Form{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
		DueDate:     c.PostForm("dueDate"),
	}
	if errs := form.Validate(); errs.Any() {
		s.renderForm(c, form, errs)
		return
	}

	req := form.Request()
	if _, err := s.svc.CreateTask(c.Request.Context(), req); err != nil {
		applog.Errorf("create task: %v", err)
		msg := "Failed to create task. "
		switch {
		case api.StatusCode(err) == http.StatusBadRequest:
			msg += "Please check your input data."
		case api.IsConnRefused(err):
			msg += "Backend server is not reachable."
		default:
			msg += "Please try again."
		}
		s.renderForm(c, form, tasks.FieldErrors{"general": msg})
		return
	}
	applog.Infof("created task %q", req.Title)
	c.Redirect(http.StatusSeeOther, withQuery("/tasks", "success", "Task \""+req.Title+"\" created successfully"))
}

func (s *Server) handleShow(c *gin.Context) {
	id, err := tasks.ParseID(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Invalid task ID")
		return
	}
	t, err := s.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			s.renderError(c, http.StatusNotFound, "Task not found")
			return
		}
		applog.Errorf("get task %d: %v", id, err)
		c.Redirect(http.StatusSeeOther, withQuery("/tasks", "error", "Failed to load task"))
		return
	}
	s.render(c, http.StatusOK, "show", s.page(c, "Task: "+t.Title, gin.H{
		"Task":     *t,
		"Statuses": tasks.Statuses,
		"Markdown": s.cfg.UI.RenderMarkdown,
	}))
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	id, err := tasks.ParseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, withQuery("/tasks", "error", "Invalid task ID"))
		return
	}
	back := "/tasks/" + strconv.FormatInt(id, 10)
	status := tasks.Status(c.PostForm("status"))
	if !status.Valid() {
		c.Redirect(http.StatusSeeOther, withQuery(back, "error", "Invalid status"))
		return
	}
	if err := s.svc.UpdateStatus(c.Request.Context(), id, status); err != nil {
		applog.Errorf("update task %d status: %v", id, err)
		c.Redirect(http.StatusSeeOther, withQuery(back, "error", "Failed to update task status"))
		return
	}
	c.Redirect(http.StatusSeeOther, withQuery(back, "success", "Task status updated to "+status.Text()))
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := tasks.ParseID(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, withQuery("/tasks", "error", "Invalid task ID"))
		return
	}
	ctx := c.Request.Context()
	t, err := s.svc.GetTask(ctx, id)
	if err == nil {
		err = s.svc.DeleteTask(ctx, id)
	}
	if err != nil {
		if api.IsNotFound(err) {
			c.Redirect(http.StatusSeeOther, withQuery("/tasks", "error", "Task not found"))
			return
		}
		applog.Errorf("delete task %d: %v", id, err)
		c.Redirect(http.StatusSeeOther, withQuery("/tasks", "error", "Failed to delete task"))
		return
	}
	applog.Infof("deleted task %d", id)
	c.Redirect(http.StatusSeeOther, withQuery("/tasks", "success", "Task \""+t.Title+"\" deleted successfully"))
}

func withQuery(path, key, msg string) string {
	return path + "?" + url.Values{key: {msg}}.Encode()
}
