package view

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints a snapshot as plain text for terminal output.
func WriteText(w io.Writer, s Snapshot) error {
	tw := &textWriter{w: w}

	if s.ErrorVisible {
		tw.printf("! %s\n\n", s.ErrorMessage)
	}

	tw.printf("Subjects\n")
	if s.TilesPlaceholder != "" {
		tw.printf("  %s\n", s.TilesPlaceholder)
	}
	for _, t := range s.Tiles {
		marker := " "
		if t.Active {
			marker = "*"
		}
		tw.printf(" %s %s\n", marker, t.Name)
	}

	if s.Content.Visible {
		WriteSubject(tw, s.Content)
	}

	if s.Ask.ResponseVisible {
		tw.printf("\nAnswer\n")
		prefix := "  "
		if s.Ask.IsError {
			prefix = "  ! "
		}
		for _, line := range s.Ask.Response {
			tw.printf("%s%s\n", prefix, line)
		}
	}

	return tw.err
}

// WriteSubject prints the summary, flashcards and quiz of the content area.
func WriteSubject(w io.Writer, c Content) {
	fmt.Fprintf(w, "\n== %s ==\n\nSummary\n", c.Title)
	for _, line := range c.Summary {
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintf(w, "\nFlashcards\n")
	if len(c.Flashcards) == 0 {
		fmt.Fprintf(w, "  %s\n", NoFlashcardsText)
	}
	for i, card := range c.Flashcards {
		if card.Flipped {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, card.Definition)
		} else {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, card.Term)
		}
	}

	fmt.Fprintf(w, "\nQuiz\n")
	if len(c.Quiz) == 0 {
		fmt.Fprintf(w, "  %s\n", NoQuizText)
	}
	for _, q := range c.Quiz {
		fmt.Fprintf(w, "  %d. %s\n", q.Number, q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "     %s %c) %s\n", markSymbol(opt.Mark), 'a'+rune(j), opt.Text)
		}
	}
}

// WriteFlashcardsBothSides prints term and definition of every card, for
// non-interactive output.
func WriteFlashcardsBothSides(w io.Writer, cards []*Card) {
	for i, card := range cards {
		fmt.Fprintf(w, "  [%d] %s\n      %s\n", i+1, card.Term, strings.ReplaceAll(card.Definition, "\n", "\n      "))
	}
}

func markSymbol(m OptionMark) string {
	switch m {
	case MarkCorrect:
		return "+"
	case MarkIncorrect:
		return "x"
	}
	return " "
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) Write(p []byte) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	n, err := t.w.Write(p)
	t.err = err
	return n, err
}

func (t *textWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(t, format, args...)
}
