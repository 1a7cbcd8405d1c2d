package view

import (
	"sync"

	"github.com/kpauljoseph/flashlearn/internal/controller"
	"github.com/kpauljoseph/flashlearn/pkg/models"
	"github.com/kpauljoseph/flashlearn/pkg/utils"
)

const (
	NoSubjectsText   = "No subjects yet. Add one below!"
	NoFlashcardsText = "No flashcards available."
	NoQuizText       = "No quiz available."
	ThinkingText     = "Thinking..."
)

type Tile struct {
	Name   string
	Active bool
}

type Card struct {
	Term       string
	Definition string
	Flipped    bool
}

// Flip toggles the visible side of the card.
func (c *Card) Flip() {
	c.Flipped = !c.Flipped
}

type OptionMark int

const (
	MarkNone OptionMark = iota
	MarkCorrect
	MarkIncorrect
)

type Option struct {
	Text string
	Mark OptionMark
}

type Question struct {
	Number  int
	Prompt  string
	Options []*Option
	Locked  bool
	answer  string
}

// Choose answers the question with option index i. It marks the expected
// answer correct and, when it differs, the choice incorrect, then locks
// the question. A locked question ignores further choices.
func (q *Question) Choose(i int) bool {
	if q.Locked || i < 0 || i >= len(q.Options) {
		return false
	}

	q.Locked = true
	chosen := q.Options[i]
	for _, opt := range q.Options {
		if opt.Text == q.answer {
			opt.Mark = MarkCorrect
		}
	}
	if chosen.Text != q.answer {
		chosen.Mark = MarkIncorrect
	}
	return true
}

type Content struct {
	Visible    bool
	Title      string
	Summary    []string
	Flashcards []*Card
	Quiz       []*Question
}

type AskPanel struct {
	Disabled        bool
	ResponseVisible bool
	Response        []string
	IsError         bool
	Question        string
}

type UploadPanel struct {
	Spinner        bool
	SubmitDisabled bool
	State          controller.RequestState
	Subject        string
	FileName       string
	URL            string
}

// Page is an in-memory rendering of the study page. All exported methods
// are safe for concurrent use; read state through Snapshot.
type Page struct {
	mu sync.Mutex

	Tiles            []Tile
	TilesPlaceholder string
	Content          Content
	ErrorVisible     bool
	ErrorMessage     string
	ActiveTab        models.Tab
	Upload           UploadPanel
	Ask              AskPanel
}

func NewPage() *Page {
	return &Page{ActiveTab: models.TabFile}
}

var _ controller.Renderer = (*Page)(nil)

func (p *Page) RenderTiles(subjects []models.Subject) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Tiles = nil
	p.TilesPlaceholder = ""
	if len(subjects) == 0 {
		p.TilesPlaceholder = NoSubjectsText
		return
	}
	for _, s := range subjects {
		p.Tiles = append(p.Tiles, Tile{Name: s.Name})
	}
}

func (p *Page) SetActiveTile(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.Tiles {
		p.Tiles[i].Active = p.Tiles[i].Name == name
	}
}

func (p *Page) RenderSubject(subject models.Subject) {
	p.mu.Lock()
	defer p.mu.Unlock()

	content := Content{
		Visible: true,
		Title:   subject.Name,
		Summary: utils.SplitLines(subject.Summary),
	}
	for _, fc := range subject.Flashcards {
		content.Flashcards = append(content.Flashcards, &Card{Term: fc.Term, Definition: fc.Definition})
	}
	for i, q := range subject.Quiz {
		question := &Question{Number: i + 1, Prompt: q.Question, answer: q.Answer}
		for _, opt := range q.Options {
			question.Options = append(question.Options, &Option{Text: opt})
		}
		content.Quiz = append(content.Quiz, question)
	}
	p.Content = content
}

func (p *Page) HideContent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Content.Visible = false
}

func (p *Page) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ErrorVisible = true
	p.ErrorMessage = message
}

func (p *Page) HideError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ErrorVisible = false
}

func (p *Page) ShowTab(tab models.Tab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ActiveTab = tab
}

func (p *Page) SetUploadState(state controller.RequestState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Upload.State = state
	p.Upload.Spinner = state == controller.StateLoading
	p.Upload.SubmitDisabled = state == controller.StateLoading
}

func (p *Page) ResetUploadForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Upload.Subject = ""
	p.Upload.FileName = ""
	p.Upload.URL = ""
}

func (p *Page) SetAskState(state controller.RequestState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ask.Disabled = state == controller.StateLoading
}

func (p *Page) ShowThinking() {
	p.setResponse([]string{ThinkingText}, false)
}

func (p *Page) RenderAnswer(answer string) {
	p.setResponse(utils.SplitLines(answer), false)
}

func (p *Page) RenderAnswerError(message string) {
	p.setResponse([]string{message}, true)
}

func (p *Page) ClearQuestion() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ask.Question = ""
}

// SetFormValues records what the user typed, so a failed upload keeps it.
func (p *Page) SetFormValues(subject, fileName, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Upload.Subject = subject
	p.Upload.FileName = fileName
	p.Upload.URL = url
}

func (p *Page) SetQuestion(question string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ask.Question = question
}

// FlipCard toggles flashcard i of the visible subject.
func (p *Page) FlipCard(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.Content.Flashcards) {
		return false
	}
	p.Content.Flashcards[i].Flip()
	return true
}

// ChooseOption answers quiz question q with option o.
func (p *Page) ChooseOption(q, o int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if q < 0 || q >= len(p.Content.Quiz) {
		return false
	}
	return p.Content.Quiz[q].Choose(o)
}

// ActiveTiles returns the names of all tiles marked active.
func (p *Page) ActiveTiles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var names []string
	for _, t := range p.Tiles {
		if t.Active {
			names = append(names, t.Name)
		}
	}
	return names
}

// Snapshot returns a deep copy of the page for reading.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Tiles:            append([]Tile(nil), p.Tiles...),
		TilesPlaceholder: p.TilesPlaceholder,
		ErrorVisible:     p.ErrorVisible,
		ErrorMessage:     p.ErrorMessage,
		ActiveTab:        p.ActiveTab,
		Upload:           p.Upload,
		Ask:              p.Ask,
		Content: Content{
			Visible: p.Content.Visible,
			Title:   p.Content.Title,
			Summary: append([]string(nil), p.Content.Summary...),
		},
	}
	s.Ask.Response = append([]string(nil), p.Ask.Response...)
	for _, c := range p.Content.Flashcards {
		card := *c
		s.Content.Flashcards = append(s.Content.Flashcards, &card)
	}
	for _, q := range p.Content.Quiz {
		question := *q
		question.Options = nil
		for _, o := range q.Options {
			opt := *o
			question.Options = append(question.Options, &opt)
		}
		s.Content.Quiz = append(s.Content.Quiz, &question)
	}
	return s
}

// Snapshot is a point-in-time copy of a Page.
type Snapshot struct {
	Tiles            []Tile
	TilesPlaceholder string
	Content          Content
	ErrorVisible     bool
	ErrorMessage     string
	ActiveTab        models.Tab
	Upload           UploadPanel
	Ask              AskPanel
}

func (p *Page) setResponse(lines []string, isError bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ask.ResponseVisible = true
	p.Ask.Response = lines
	p.Ask.IsError = isError
}
