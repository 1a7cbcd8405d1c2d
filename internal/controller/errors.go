package controller

import (
	"context"
	"errors"

	"github.com/kpauljoseph/flashlearn/internal/api"
	"github.com/kpauljoseph/flashlearn/internal/preflight"
)

const (
	MsgMissingSubject = "Please enter a subject name."
	MsgMissingFile    = "Please select a file."
	MsgMissingURL     = "Please enter a YouTube URL."
	MsgCancelled      = "Request cancelled."
)

var (
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrAskInProgress    = errors.New("a question is already being answered")
	// ErrNotReady means there is no question or no selected subject to ask about.
	ErrNotReady = errors.New("nothing to ask")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserMessage picks the text shown to the user for err, using fallback when
// err carries nothing presentable.
func UserMessage(err error, fallback string) string {
	var (
		validationErr *ValidationError
		rejectedErr   *preflight.RejectedError
		apiErr        *api.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &rejectedErr):
		return rejectedErr.Message
	case errors.Is(err, context.Canceled):
		return MsgCancelled
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return fallback
}
