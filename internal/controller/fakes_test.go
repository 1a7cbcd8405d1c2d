package controller_test

import (
	"context"
	"io"
	"sync"

	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

type processCall struct {
	Subject  string
	Filename string
	Content  string
	URL      string
}

type fakeBackend struct {
	mu sync.Mutex

	subjects    []models.Subject
	listErr     error
	processErr  error
	answer      string
	askErr      error
	afterUpload []models.Subject

	listCalls    int
	fileCalls    []processCall
	youtubeCalls []processCall
	askCalls     []processCall

	// block, when set, is waited on by process and ask calls.
	block chan struct{}
}

func (f *fakeBackend) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Subject(nil), f.subjects...), nil
}

func (f *fakeBackend) ProcessFile(ctx context.Context, subject, filename string, content io.Reader) error {
	data, _ := io.ReadAll(content)
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileCalls = append(f.fileCalls, processCall{Subject: subject, Filename: filename, Content: string(data)})
	return f.finishUpload()
}

func (f *fakeBackend) ProcessYouTube(ctx context.Context, subject, videoURL string) error {
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.youtubeCalls = append(f.youtubeCalls, processCall{Subject: subject, URL: videoURL})
	return f.finishUpload()
}

func (f *fakeBackend) Ask(ctx context.Context, subject, question string) (string, error) {
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.askCalls = append(f.askCalls, processCall{Subject: subject, Content: question})
	if f.askErr != nil {
		return "", f.askErr
	}
	return f.answer, nil
}

func (f *fakeBackend) finishUpload() error {
	if f.processErr != nil {
		return f.processErr
	}
	if f.afterUpload != nil {
		f.subjects = f.afterUpload
	}
	return nil
}

func (f *fakeBackend) wait() {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeBackend) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + len(f.fileCalls) + len(f.youtubeCalls) + len(f.askCalls)
}

type fakePreflight struct {
	err   error
	paths []string
}

func (f *fakePreflight) Inspect(ctx context.Context, path string) (*preflight.Report, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return &preflight.Report{Path: path, Extension: preflight.Extension(path), Pages: 1, HasText: true}, nil
}
