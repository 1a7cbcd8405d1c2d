package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kpauljoseph/flashlearn/pkg/models"
)

type SubjectsResponse struct {
	Subjects []models.Subject `json:"subjects"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body every endpoint returns with a non-2xx status.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error is a failed backend call. Message is always safe to show to the
// user: it is the server's message when one was sent, otherwise the
// operation's generic message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("status %d: %s: %v", e.Status, e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func decodeError(status int, body []byte, fallback string) *Error {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || strings.TrimSpace(resp.Message) == "" {
		return &Error{Status: status, Message: fallback}
	}
	return &Error{Status: status, Message: resp.Message}
}
