package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kpauljoseph/flashlearn/internal/api"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

const DefaultErrorDuration = 5 * time.Second

// Attachment is the file picked in file mode. Content is read when set,
// otherwise the file at Path is opened.
type Attachment struct {
	Name    string
	Path    string
	Content io.Reader
}

type UploadForm struct {
	Subject string
	File    *Attachment
	URL     string
}

// Controller holds the session state of one user: the subject list, the
// selected subject, the input mode and the state of the upload and ask
// workflows.
type Controller struct {
	backend   Backend
	renderer  Renderer
	preflight Preflight
	banner    *Banner
	logger    *logger.Logger

	errorDuration time.Duration

	mu             sync.Mutex
	activeTab      models.Tab
	currentSubject string
	subjects       []models.Subject
	uploadState    RequestState
	askState       RequestState
}

type Option func(*Controller)

func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.logger = log
	}
}

func WithPreflight(p Preflight) Option {
	return func(c *Controller) {
		c.preflight = p
	}
}

func WithErrorDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.errorDuration = d
	}
}

func New(backend Backend, renderer Renderer, options ...Option) *Controller {
	c := &Controller{
		backend:       backend,
		renderer:      renderer,
		logger:        logger.Discard(),
		errorDuration: DefaultErrorDuration,
		activeTab:     models.TabFile,
		subjects:      []models.Subject{},
	}
	for _, opt := range options {
		opt(c)
	}
	c.banner = NewBanner(c.errorDuration, renderer.ShowError, renderer.HideError)
	return c
}

// Init loads the subject list and draws the tiles, like a fresh page load.
func (c *Controller) Init(ctx context.Context) error {
	err := c.LoadSubjects(ctx)
	c.RenderTiles()
	return err
}

// Close stops the pending banner timer.
func (c *Controller) Close() {
	c.banner.Stop()
}

func (c *Controller) LoadSubjects(ctx context.Context) error {
	subjects, err := c.backend.ListSubjects(ctx)
	if err != nil {
		c.logger.Error("Failed to load subjects: %v", err)
		c.showError(UserMessage(err, api.MsgFetchSubjectsFailed))
		return fmt.Errorf("load subjects: %w", err)
	}

	c.mu.Lock()
	c.subjects = subjects
	c.mu.Unlock()

	c.logger.Debug("Loaded %d subjects", len(subjects))
	return nil
}

func (c *Controller) RenderTiles() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.renderer.RenderTiles(append([]models.Subject(nil), c.subjects...))
	if _, ok := models.FindSubject(c.subjects, c.currentSubject); ok {
		c.renderer.SetActiveTile(c.currentSubject)
	}
}

// SelectSubject marks the named tile active and renders its content. An
// unknown name clears the selection and hides the content area.
func (c *Controller) SelectSubject(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	subject, ok := models.FindSubject(c.subjects, name)
	if !ok {
		c.logger.Debug("Subject %q not found, hiding content", name)
		c.currentSubject = ""
		c.renderer.SetActiveTile("")
		c.renderer.HideContent()
		return false
	}

	c.currentSubject = subject.Name
	c.renderer.SetActiveTile(subject.Name)
	c.renderer.RenderSubject(subject)
	return true
}

func (c *Controller) ShowTab(tab models.Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("unknown input mode %q", tab)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.activeTab = tab
	c.renderer.ShowTab(tab)
	return nil
}

// Upload validates the form, sends it to the processing endpoint of the
// active mode and, on success, reloads the directory and selects the
// uploaded subject.
func (c *Controller) Upload(ctx context.Context, form UploadForm) error {
	c.mu.Lock()
	tab := c.activeTab
	busy := c.uploadState == StateLoading
	c.mu.Unlock()
	if busy {
		return ErrUploadInProgress
	}

	subject := strings.TrimSpace(form.Subject)
	videoURL := strings.TrimSpace(form.URL)
	if err := validateUpload(tab, subject, form.File, videoURL); err != nil {
		c.showError(err.Message)
		return err
	}

	if tab == models.TabFile && c.preflight != nil && form.File.Path != "" {
		report, err := c.preflight.Inspect(ctx, form.File.Path)
		if err != nil {
			c.logger.Warn("Preflight rejected %s: %v", form.File.Path, err)
			c.showError(UserMessage(err, api.MsgUnknownError))
			return fmt.Errorf("preflight %s: %w", form.File.Path, err)
		}
		c.logger.Debug("Preflight passed for %s (%d pages, sha256 %s)", report.Path, report.Pages, report.Hash)
	}

	c.mu.Lock()
	if c.uploadState == StateLoading {
		c.mu.Unlock()
		return ErrUploadInProgress
	}
	c.setUploadStateLocked(StateLoading)
	c.mu.Unlock()

	var err error
	switch tab {
	case models.TabFile:
		err = c.uploadFile(ctx, subject, form.File)
	case models.TabYouTube:
		err = c.backend.ProcessYouTube(ctx, subject, videoURL)
	}

	if err != nil {
		c.logger.Error("Upload for subject %q failed: %v", subject, err)
		c.showError(UserMessage(err, api.MsgUnknownError))
		c.setUploadState(StateError)
		return fmt.Errorf("upload %q: %w", subject, err)
	}

	c.logger.Info("Processed upload for subject %q", subject)
	// A failed reload is already reported to the user by LoadSubjects.
	_ = c.LoadSubjects(ctx)
	c.RenderTiles()
	c.SelectSubject(subject)

	c.mu.Lock()
	c.renderer.ResetUploadForm()
	c.setUploadStateLocked(StateIdle)
	c.mu.Unlock()
	return nil
}

func (c *Controller) uploadFile(ctx context.Context, subject string, file *Attachment) error {
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}

	content := file.Content
	if content == nil {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file.Path, err)
		}
		defer f.Close()
		content = f
	}

	return c.backend.ProcessFile(ctx, subject, name, content)
}

// Ask sends question about the selected subject and renders the answer or
// the error inline. Without a question or a selected subject nothing
// happens and ErrNotReady is returned.
func (c *Controller) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)

	c.mu.Lock()
	subject := c.currentSubject
	if question == "" || subject == "" {
		c.mu.Unlock()
		return "", ErrNotReady
	}
	if c.askState == StateLoading {
		c.mu.Unlock()
		return "", ErrAskInProgress
	}
	c.askState = StateLoading
	c.renderer.SetAskState(StateLoading)
	c.renderer.ShowThinking()
	c.mu.Unlock()

	answer, err := c.backend.Ask(ctx, subject, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("Question about %q failed: %v", subject, err)
		c.askState = StateError
		c.renderer.RenderAnswerError(UserMessage(err, api.MsgAskFailed))
	} else {
		c.askState = StateIdle
		c.renderer.RenderAnswer(answer)
	}
	c.renderer.SetAskState(c.askState)
	c.renderer.ClearQuestion()

	if err != nil {
		return "", fmt.Errorf("ask %q: %w", subject, err)
	}
	return answer, nil
}

func (c *Controller) Subjects() []models.Subject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Subject(nil), c.subjects...)
}

func (c *Controller) CurrentSubject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSubject
}

func (c *Controller) ActiveTab() models.Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTab
}

func (c *Controller) UploadState() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadState
}

func (c *Controller) AskState() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.askState
}

func (c *Controller) showError(message string) {
	c.logger.Warn("%s", message)
	c.banner.Show(message)
}

func (c *Controller) setUploadState(state RequestState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setUploadStateLocked(state)
}

func (c *Controller) setUploadStateLocked(state RequestState) {
	c.uploadState = state
	c.renderer.SetUploadState(state)
}

func validateUpload(tab models.Tab, subject string, file *Attachment, videoURL string) *ValidationError {
	if subject == "" {
		return &ValidationError{Field: "subject", Message: MsgMissingSubject}
	}
	switch tab {
	case models.TabFile:
		if file == nil || (file.Content == nil && file.Path == "") {
			return &ValidationError{Field: "file", Message: MsgMissingFile}
		}
	case models.TabYouTube:
		if videoURL == "" {
			return &ValidationError{Field: "url", Message: MsgMissingURL}
		}
	}
	return nil
}
