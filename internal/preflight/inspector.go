package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/utils"
)

const (
	ExtPDF = "pdf"
	ExtTXT = "txt"

	MsgNoText = "Could not extract any text from the file."
)

var DefaultExtensions = []string{ExtPDF, ExtTXT}

// RejectedError is a file the backend would refuse. Message is shown to the
// user as is.
type RejectedError struct {
	Path    string
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

type Report struct {
	Path      string
	Extension string
	Pages     int
	HasText   bool
	Hash      string
}

type Inspector struct {
	allowed map[string]bool
	logger  *logger.Logger
}

func NewInspector(extensions []string, log *logger.Logger) *Inspector {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if log == nil {
		log = logger.Discard()
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Inspector{allowed: allowed, logger: log}
}

func (i *Inspector) Allowed(path string) bool {
	return i.allowed[Extension(path)]
}

// Inspect checks that path is a file the backend can extract text from.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := Extension(path)
	if !i.allowed[ext] {
		return nil, &RejectedError{Path: path, Message: fmt.Sprintf("Invalid file type: .%s.", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &RejectedError{Path: path, Message: "Please select a file, not a directory."}
	}

	report := &Report{Path: path, Extension: ext}

	switch ext {
	case ExtPDF:
		if err := i.inspectPDF(ctx, report); err != nil {
			return nil, err
		}
	default:
		if err := inspectText(report); err != nil {
			return nil, err
		}
	}

	if !report.HasText {
		return nil, &RejectedError{Path: path, Message: MsgNoText}
	}

	report.Hash, err = utils.GenerateFileHash(path)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("Inspected %s: %d pages, text=%t", path, report.Pages, report.HasText)
	return report, nil
}

func (i *Inspector) inspectPDF(ctx context.Context, report *Report) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(report.Path, conf); err != nil {
		return &RejectedError{Path: report.Path, Message: "The file is not a valid PDF.", Err: err}
	}

	pages, err := api.PageCountFile(report.Path)
	if err != nil {
		return &RejectedError{Path: report.Path, Message: "The file is not a valid PDF.", Err: err}
	}
	report.Pages = pages

	doc, err := fitz.New(report.Path)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			i.logger.Debug("Warning: couldn't extract text from page %d: %v", pageNum, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			report.HasText = true
			return nil
		}
	}
	return nil
}

func inspectText(report *Report) error {
	data, err := os.ReadFile(report.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", report.Path, err)
	}
	report.Pages = 1
	report.HasText = strings.TrimSpace(string(data)) != ""
	return nil
}

// Extension returns the lower-cased extension of path without the dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
