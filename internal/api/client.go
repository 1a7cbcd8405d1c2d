package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/models"
	"github.com/kpauljoseph/flashlearn/pkg/version"
)

const (
	subjectsPath       = "/api/subjects"
	processFilePath    = "/api/process/file"
	processYouTubePath = "/api/process/youtube"
	askPath            = "/api/ask"
	healthPath         = "/health"

	MsgFetchSubjectsFailed = "Failed to fetch subjects."
	MsgUnknownError        = "An unknown error occurred."
	MsgAskFailed           = "Failed to get an answer."
)

var ErrSubjectNotFound = errors.New("subject not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.httpClient = &http.Client{Timeout: timeout}
	}
}

func NewClient(baseURL string, log *logger.Logger, options ...Option) *Client {
	if log == nil {
		log = logger.Discard()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     log,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var body SubjectsResponse
	if err := c.getJSON(ctx, subjectsPath, MsgFetchSubjectsFailed, &body); err != nil {
		return nil, err
	}
	if body.Subjects == nil {
		return []models.Subject{}, nil
	}
	c.logger.Debug("Fetched %d subjects", len(body.Subjects))
	return body.Subjects, nil
}

func (c *Client) GetSubject(ctx context.Context, name string) (models.Subject, error) {
	var subject models.Subject
	err := c.getJSON(ctx, subjectsPath+"/"+url.PathEscape(name), MsgFetchSubjectsFailed, &subject)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return models.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, name)
	}
	return subject, err
}

func (c *Client) ProcessFile(ctx context.Context, subject, filename string, content io.Reader) error {
	c.logger.Info("Uploading %s under subject %q", filename, subject)
	return c.postForm(ctx, processFilePath, MsgUnknownError, func(w *multipart.Writer) error {
		if err := w.WriteField("subject", subject); err != nil {
			return err
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, content)
		return err
	}, nil)
}

func (c *Client) ProcessYouTube(ctx context.Context, subject, videoURL string) error {
	c.logger.Info("Submitting %s under subject %q", videoURL, subject)
	return c.postForm(ctx, processYouTubePath, MsgUnknownError, fields(map[string]string{
		"subject": subject,
		"url":     videoURL,
	}), nil)
}

func (c *Client) Ask(ctx context.Context, subject, question string) (string, error) {
	c.logger.Debug("Asking about %q: %s", subject, question)
	var body AnswerResponse
	err := c.postForm(ctx, askPath, MsgAskFailed, fields(map[string]string{
		"subject":  subject,
		"question": question,
	}), &body)
	if err != nil {
		return "", err
	}
	return body.Answer, nil
}

func (c *Client) Health(ctx context.Context) error {
	var body HealthResponse
	if err := c.getJSON(ctx, healthPath, "Backend is not reachable.", &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("backend reported status %q", body.Status)
	}
	return nil
}

func fields(values map[string]string) func(*multipart.Writer) error {
	return func(w *multipart.Writer) error {
		// Stable field order keeps request bodies reproducible.
		for _, key := range []string{"subject", "url", "question"} {
			if v, ok := values[key]; ok {
				if err := w.WriteField(key, v); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (c *Client) getJSON(ctx context.Context, path, fallback string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	err = c.do(req, fallback, out)
	// Read endpoints always report their generic message.
	var apiErr *Error
	if errors.As(err, &apiErr) {
		apiErr.Message = fallback
	}
	return err
}

func (c *Client) postForm(ctx context.Context, path, fallback string, write func(*multipart.Writer) error, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := write(w); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, fallback, out)
}

func (c *Client) do(req *http.Request, fallback string, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	c.logger.Trace("%s %s", req.Method, req.URL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request %s %s failed: %v", req.Method, req.URL.Path, err)
		return &Error{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, body, fallback)
		c.logger.Debug("Request %s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
