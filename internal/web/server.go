package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kpauljoseph/flashlearn/internal/controller"
	"github.com/kpauljoseph/flashlearn/internal/view"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

const maxUploadBytes = 64 << 20

// Server is a single-user web front: every request drives the same
// controller and renders the same page.
type Server struct {
	ctrl   *controller.Controller
	page   *view.Page
	logger *logger.Logger
	tmpl   *template.Template
}

func NewServer(ctrl *controller.Controller, page *view.Page, log *logger.Logger) *Server {
	return &Server{
		ctrl:   ctrl,
		page:   page,
		logger: log,
		tmpl:   template.Must(template.New("page").Funcs(templateFuncs).Parse(pageHTML)),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/tab", s.post(s.handleTab))
	mux.HandleFunc("/subjects/select", s.post(s.handleSelect))
	mux.HandleFunc("/upload", s.post(s.handleUpload))
	mux.HandleFunc("/ask", s.post(s.handleAsk))
	mux.HandleFunc("/flashcards/flip", s.post(s.handleFlip))
	mux.HandleFunc("/quiz/choose", s.post(s.handleChoose))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("FlashLearn available at http://%s", addr)

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down web front")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) post(h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h(w, r); err != nil {
			var badRequest *badRequestError
			if errors.As(err, &badRequest) {
				http.Error(w, badRequest.Error(), http.StatusBadRequest)
				return
			}
			// The controller already rendered the failure on the page.
			s.logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, s.page.Snapshot()); err != nil {
		s.logger.Error("Failed to render page: %v", err)
	}
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) error {
	if err := s.ctrl.ShowTab(models.Tab(r.FormValue("tab"))); err != nil {
		return &badRequestError{err}
	}
	return nil
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) error {
	s.ctrl.SelectSubject(r.FormValue("name"))
	return nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return &badRequestError{fmt.Errorf("invalid upload form: %w", err)}
	}

	form := controller.UploadForm{
		Subject: r.FormValue("subject"),
		URL:     r.FormValue("url"),
	}

	var fileName string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		fileName = header.Filename
		tmpPath, err := spool(file, header.Filename)
		if err != nil {
			return err
		}
		defer os.Remove(tmpPath)
		form.File = &controller.Attachment{Name: header.Filename, Path: tmpPath}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return &badRequestError{fmt.Errorf("invalid file field: %w", err)}
	}

	s.page.SetFormValues(form.Subject, fileName, form.URL)
	return s.ctrl.Upload(r.Context(), form)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) error {
	question := r.FormValue("question")
	s.page.SetQuestion(question)
	_, err := s.ctrl.Ask(r.Context(), question)
	return err
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) error {
	i, err := strconv.Atoi(r.FormValue("card"))
	if err != nil {
		return &badRequestError{fmt.Errorf("invalid card index: %w", err)}
	}
	s.page.FlipCard(i)
	return nil
}

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) error {
	q, err := strconv.Atoi(r.FormValue("question"))
	if err != nil {
		return &badRequestError{fmt.Errorf("invalid question index: %w", err)}
	}
	o, err := strconv.Atoi(r.FormValue("option"))
	if err != nil {
		return &badRequestError{fmt.Errorf("invalid option index: %w", err)}
	}
	s.page.ChooseOption(q, o)
	return nil
}

// spool copies an uploaded file to disk so it can be preflighted, keeping
// its extension.
func spool(src io.Reader, name string) (string, error) {
	tmp, err := os.CreateTemp("", "flashlearn-upload-*"+filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return tmp.Name(), nil
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}
