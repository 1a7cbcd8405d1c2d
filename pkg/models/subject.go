package models

type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// IsCorrect reports whether option matches the expected answer verbatim.
func (q QuizQuestion) IsCorrect(option string) bool {
	return option == q.Answer
}

type Subject struct {
	Name       string         `json:"name"`
	Summary    string         `json:"summary"`
	Flashcards []Flashcard    `json:"flashcards"`
	Quiz       []QuizQuestion `json:"quiz"`
}

// FindSubject returns the first subject in list named name.
func FindSubject(list []Subject, name string) (Subject, bool) {
	for _, s := range list {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

type Tab string

const (
	TabFile    Tab = "file"
	TabYouTube Tab = "youtube"
)

func (t Tab) Valid() bool {
	return t == TabFile || t == TabYouTube
}
