package web_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashlearn/internal/controller"
	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/internal/view"
	"github.com/kpauljoseph/flashlearn/internal/web"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

type stubBackend struct {
	mu       sync.Mutex
	subjects []models.Subject
	uploads  []string
}

func (b *stubBackend) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Subject(nil), b.subjects...), nil
}

func (b *stubBackend) ProcessFile(ctx context.Context, subject, filename string, content io.Reader) error {
	data, _ := io.ReadAll(content)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, filename+":"+string(data))
	b.subjects = append(b.subjects, models.Subject{Name: subject, Summary: "from " + filename})
	return nil
}

func (b *stubBackend) ProcessYouTube(ctx context.Context, subject, videoURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, videoURL)
	b.subjects = append(b.subjects, models.Subject{Name: subject, Summary: "from video"})
	return nil
}

func (b *stubBackend) Ask(ctx context.Context, subject, question string) (string, error) {
	return "About " + subject + ":\n" + question, nil
}

var _ = Describe("Web Server", func() {
	var (
		backend *stubBackend
		page    *view.Page
		ctrl    *controller.Controller
		handler http.Handler
	)

	BeforeEach(func() {
		backend = &stubBackend{subjects: []models.Subject{{
			Name:       "Geography",
			Summary:    "Line one\nLine <two>",
			Flashcards: []models.Flashcard{{Term: "Paris", Definition: "Capital of France"}},
			Quiz: []models.QuizQuestion{
				{Question: "Capital of France?", Options: []string{"Paris", "London"}, Answer: "Paris"},
			},
		}}}
		log := logger.New(logger.WithOutput(GinkgoWriter), logger.WithFlags(0))
		page = view.NewPage()
		ctrl = controller.New(backend, page,
			controller.WithLogger(log),
			controller.WithPreflight(preflight.NewInspector(nil, log)),
		)
		Expect(ctrl.Init(context.Background())).To(Succeed())
		handler = web.NewServer(ctrl, page, log).Handler()
	})

	AfterEach(func() {
		ctrl.Close()
	})

	postForm := func(path string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	home := func() string {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rr.Code).To(Equal(http.StatusOK))
		return rr.Body.String()
	}

	It("should render the subject tiles", func() {
		body := home()
		Expect(body).To(ContainSubstring(`value="Geography"`))
		Expect(body).NotTo(ContainSubstring("content-container"))
	})

	It("should select a subject and render escaped summary lines", func() {
		rr := postForm("/subjects/select", url.Values{"name": {"Geography"}})
		Expect(rr.Code).To(Equal(http.StatusSeeOther))
		Expect(ctrl.CurrentSubject()).To(Equal("Geography"))

		body := home()
		Expect(body).To(ContainSubstring(`class="tile active"`))
		Expect(body).To(ContainSubstring("Line one<br>Line &lt;two&gt;"))
		Expect(body).To(ContainSubstring("1. Capital of France?"))
	})

	It("should flip cards and lock quiz questions", func() {
		postForm("/subjects/select", url.Values{"name": {"Geography"}})

		postForm("/flashcards/flip", url.Values{"card": {"0"}})
		Expect(home()).To(ContainSubstring("Capital of France</button>"))

		postForm("/quiz/choose", url.Values{"question": {"0"}, "option": {"1"}})
		body := home()
		Expect(body).To(ContainSubstring(`class="quiz-option correct"`))
		Expect(body).To(ContainSubstring(`class="quiz-option incorrect"`))
		Expect(body).To(ContainSubstring(" disabled>Paris</button>"))
	})

	It("should reject malformed indexes", func() {
		rr := postForm("/quiz/choose", url.Values{"question": {"x"}, "option": {"0"}})
		Expect(rr.Code).To(Equal(http.StatusBadRequest))
	})

	It("should only accept POST for actions", func() {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ask", nil))
		Expect(rr.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should switch tabs and upload a youtube url", func() {
		Expect(postForm("/tab", url.Values{"tab": {"youtube"}}).Code).To(Equal(http.StatusSeeOther))
		Expect(home()).To(ContainSubstring(`id="youtube-url"`))

		rr := postForm("/upload", url.Values{"subject": {"Physics"}, "url": {"https://youtu.be/abc"}})
		Expect(rr.Code).To(Equal(http.StatusSeeOther))
		Expect(backend.uploads).To(Equal([]string{"https://youtu.be/abc"}))
		Expect(ctrl.CurrentSubject()).To(Equal("Physics"))
	})

	It("should reject an unknown tab", func() {
		Expect(postForm("/tab", url.Values{"tab": {"audio"}}).Code).To(Equal(http.StatusBadRequest))
	})

	It("should upload a file through the preflight", func() {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		Expect(w.WriteField("subject", "Biology")).To(Succeed())
		part, err := w.CreateFormFile("file", "cells.txt")
		Expect(err).NotTo(HaveOccurred())
		io.WriteString(part, "Cells divide.")
		Expect(w.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusSeeOther))
		Expect(backend.uploads).To(Equal([]string{"cells.txt:Cells divide."}))
		Expect(ctrl.CurrentSubject()).To(Equal("Biology"))
	})

	It("should show the validation banner when no file is attached", func() {
		rr := postForm("/upload", url.Values{"subject": {"Biology"}})
		Expect(rr.Code).To(Equal(http.StatusSeeOther))
		Expect(backend.uploads).To(BeEmpty())

		body := home()
		Expect(body).To(ContainSubstring("Please select a file."))
		Expect(body).To(ContainSubstring(`value="Biology"`))
	})

	It("should ask about the selected subject", func() {
		postForm("/subjects/select", url.Values{"name": {"Geography"}})
		postForm("/ask", url.Values{"question": {"Where is Paris?"}})

		body := home()
		Expect(body).To(ContainSubstring("About Geography:<br>Where is Paris?"))
		Expect(body).To(ContainSubstring(`id="qa-input" name="question" value=""`))
	})
})
