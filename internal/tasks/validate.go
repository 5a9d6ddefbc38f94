package tasks

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// FieldErrors maps a form field ("title", "description", "status",
// "general") to its message.
type FieldErrors map[string]string

func (e FieldErrors) Any() bool { return len(e) > 0 }

// Form is the raw create form as submitted by the browser.
type Form struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// Validate checks the form before anything is sent to the backend.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Task title is required"
	} else if utf8.RuneCountInString(f.Title) > MaxTitleLength {
		errs["title"] = "Task title must be less than 255 characters"
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		errs["description"] = "Task description must be less than 1000 characters"
	}
	if f.Status != "" && !Status(f.Status).Valid() {
		errs["status"] = "Select a valid status"
	}
	return errs
}

// Request builds the backend payload from a validated form.
func (f Form) Request() CreateRequest {
	st := Status(f.Status)
	if st == "" {
		st = StatusPending
	}
	return CreateRequest{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Status:      st,
		DueDate:     NormalizeDueDate(f.DueDate),
	}
}
