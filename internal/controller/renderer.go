package controller

import (
	"context"
	"io"

	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

type RequestState int

const (
	StateIdle RequestState = iota
	StateLoading
	StateError
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Renderer draws controller state. Implementations must not call back into
// the Controller.
type Renderer interface {
	RenderTiles(subjects []models.Subject)
	SetActiveTile(name string)
	RenderSubject(subject models.Subject)
	HideContent()

	ShowError(message string)
	HideError()

	ShowTab(tab models.Tab)
	SetUploadState(state RequestState)
	ResetUploadForm()

	SetAskState(state RequestState)
	ShowThinking()
	RenderAnswer(answer string)
	RenderAnswerError(message string)
	ClearQuestion()
}

type Backend interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ProcessFile(ctx context.Context, subject, filename string, content io.Reader) error
	ProcessYouTube(ctx context.Context, subject, videoURL string) error
	Ask(ctx context.Context, subject, question string) (string, error)
}

// Preflight checks a local file before it is uploaded.
type Preflight interface {
	Inspect(ctx context.Context, path string) (*preflight.Report, error)
}
