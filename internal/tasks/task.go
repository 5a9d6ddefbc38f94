// Package tasks holds the task types exchanged with the backend and the
// small amount of logic the UI applies to them: id parsing, status
// membership, form validation, date handling and the home page summary.
package tasks

import (
	"errors"
	"strconv"
	"strings"
)

// Status is the backend's task status enumeration.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses. Matching is exact.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label is the human readable form, e.g. "In progress".
func (s Status) Label() string {
	t := s.Text()
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// Text is the lower-case form used in messages, e.g. "in progress".
func (s Status) Text() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// Class is a css-friendly token, e.g. "in-progress".
func (s Status) Class() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", "-"))
}

// Task is the backend representation. Date fields are kept as the backend
// sends them; parsing happens only for display.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	DueDate     string `json:"dueDate,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
	UpdatedDate string `json:"updatedDate,omitempty"`
}

// CreateRequest is the body of POST {tasks}.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// StatusUpdate is the body of PUT {tasks}/{id}/status.
type StatusUpdate struct {
	Status Status `json:"status"`
}

var ErrInvalidID = errors.New("invalid task id")

// ParseID accepts only plain positive decimal identifiers.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
