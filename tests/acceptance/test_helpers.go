package acceptance

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/kpauljoseph/flashlearn/pkg/models"
)

// Backend is an in-memory stand-in for the study backend. It accepts the
// same forms and answers with the same envelopes.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	subjects []models.Subject
	requests []string
}

func NewBackend() *Backend {
	b := &Backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/subjects", b.handleSubjects)
	mux.HandleFunc("/api/process/file", b.handleProcessFile)
	mux.HandleFunc("/api/process/youtube", b.handleProcessYouTube)
	mux.HandleFunc("/api/ask", b.handleAsk)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	b.Server = httptest.NewServer(b.record(mux))
	return b
}

// Requests lists "METHOD /path" for every request received.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleSubjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": b.subjects})
}

func (b *Backend) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	subject := strings.TrimSpace(r.FormValue("subject"))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file selected.")
		return
	}
	defer file.Close()
	if subject == "" {
		writeMessage(w, http.StatusBadRequest, "Subject cannot be empty.")
		return
	}

	ext := strings.ToLower(header.Filename[strings.LastIndex(header.Filename, ".")+1:])
	if ext != "pdf" && ext != "txt" {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid file type: .%s.", ext))
		return
	}

	data, _ := io.ReadAll(file)
	text := strings.TrimSpace(string(data))
	if text == "" {
		writeMessage(w, http.StatusBadRequest, "Could not extract any text from the file.")
		return
	}

	writeJSON(w, http.StatusOK, b.save(subject, text))
}

func (b *Backend) handleProcessYouTube(w http.ResponseWriter, r *http.Request) {
	subject := strings.TrimSpace(r.FormValue("subject"))
	videoURL := r.FormValue("url")
	if !strings.Contains(videoURL, "youtube.com") && !strings.Contains(videoURL, "youtu.be") {
		writeMessage(w, http.StatusBadRequest, "Invalid YouTube URL provided.")
		return
	}
	if subject == "" {
		writeMessage(w, http.StatusBadRequest, "Subject cannot be empty.")
		return
	}
	writeJSON(w, http.StatusOK, b.save(subject, "Transcript of "+videoURL))
}

func (b *Backend) handleAsk(w http.ResponseWriter, r *http.Request) {
	subject := r.FormValue("subject")
	question := r.FormValue("question")

	b.mu.Lock()
	found, ok := models.FindSubject(b.subjects, subject)
	b.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Failed to get an answer: unknown subject "+subject)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"answer": fmt.Sprintf("Q: %s\nA: %s", question, found.Summary),
	})
}

// save stores generated materials, replacing an existing subject of the
// same name in place.
func (b *Backend) save(name, text string) models.Subject {
	first := strings.Fields(text)[0]
	subject := models.Subject{
		Name:       name,
		Summary:    "Summary of " + name + "\n" + text,
		Flashcards: []models.Flashcard{{Term: first, Definition: "First word of the source"}},
		Quiz: []models.QuizQuestion{{
			Question: "Which word opens the source?",
			Options:  []string{first, "none"},
			Answer:   first,
		}},
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.subjects {
		if b.subjects[i].Name == name {
			b.subjects[i] = subject
			return subject
		}
	}
	b.subjects = append(b.subjects, subject)
	return subject
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
