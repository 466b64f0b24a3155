package forms

import (
	"errors"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Category tells the admin which step of a submission failed.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryUpload     Category = "upload"
	CategoryRemote     Category = "remote"
)

// Notice is the single user-facing outcome of a submission.
type Notice struct {
	Level    Level    `json:"level"`
	Category Category `json:"category,omitempty"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder keeps the notices it receives. Handlers use one per request.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) { r.Notices = append(r.Notices, n) }

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}

func SuccessNotice(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message}
}

// FailureNotice builds the notice for err, picking the category from its type.
func FailureNotice(category Category, err error) Notice {
	n := Notice{Level: LevelError, Category: category, Message: err.Error()}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		n.Field = apiErr.Field
		if apiErr.Details != "" {
			n.Message = apiErr.Details
		}
	}
	if errs.IsTimeoutError(err) {
		n.Message += ". Please try again."
	}
	return n
}
