package server

import (
	"errors"
	"net/http"

	"github.com/BeepBeep84/blog/internal/feed"
	"github.com/BeepBeep84/blog/internal/site"
)

// apiErr is an error with the HTTP status it maps to.
type apiErr struct {
	StatusCode int
	Message    string
	err        error
}

func (e *apiErr) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *apiErr) Unwrap() error { return e.err }

// classify maps a handler error to its status and visitor-facing message.
// fallback is the message used for load failures and unexpected errors.
func classify(err error, fallback string) *apiErr {
	var ae *apiErr
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, site.ErrNoSlug):
		return &apiErr{StatusCode: http.StatusBadRequest, Message: site.MsgNoSlug, err: err}
	case errors.Is(err, site.ErrNotFound):
		return &apiErr{StatusCode: http.StatusNotFound, Message: site.MsgNotFound, err: err}
	case errors.Is(err, feed.ErrLoad):
		return &apiErr{StatusCode: http.StatusServiceUnavailable, Message: fallback, err: err}
	default:
		return &apiErr{StatusCode: http.StatusInternalServerError, Message: fallback, err: err}
	}
}
