package preflight_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
)

func preflightTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[preflight-test] "),
		logger.WithFlags(0),
	)
	log.SetVerbose(true)
	return log
}

// minimalPDF builds a one page PDF showing text with a correct xref table.
func minimalPDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

var _ = Describe("Upload Inspector", func() {
	var (
		inspector *preflight.Inspector
		tempDir   string
		ctx       context.Context
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "flashlearn-preflight-*")
		Expect(err).NotTo(HaveOccurred())

		inspector = preflight.NewInspector(nil, preflightTestLogger())
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	write := func(name string, content []byte) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, content, 0644)).To(Succeed())
		return path
	}

	rejection := func(err error) string {
		var rejected *preflight.RejectedError
		Expect(errors.As(err, &rejected)).To(BeTrue(), "expected a rejection, got %v", err)
		return rejected.Message
	}

	DescribeTable("Extension",
		func(path, expected string) {
			Expect(preflight.Extension(path)).To(Equal(expected))
		},
		Entry("lower case", "notes.pdf", "pdf"),
		Entry("upper case", "NOTES.TXT", "txt"),
		Entry("nested path", "a/b/c.tar.gz", "gz"),
		Entry("no extension", "README", ""),
	)

	It("should reject unsupported extensions", func() {
		path := write("slides.pptx", []byte("binary"))
		_, err := inspector.Inspect(ctx, path)
		Expect(rejection(err)).To(Equal("Invalid file type: .pptx."))
		Expect(inspector.Allowed(path)).To(BeFalse())
	})

	It("should honor a custom extension list", func() {
		custom := preflight.NewInspector([]string{".MD"}, preflightTestLogger())
		path := write("notes.md", []byte("# Heading"))

		report, err := custom.Inspect(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Extension).To(Equal("md"))

		_, err = custom.Inspect(ctx, write("notes.txt", []byte("text")))
		Expect(rejection(err)).To(Equal("Invalid file type: .txt."))
	})

	It("should accept a text file with content", func() {
		path := write("notes.txt", []byte("Mitochondria are the powerhouse."))

		report, err := inspector.Inspect(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Path).To(Equal(path))
		Expect(report.Extension).To(Equal("txt"))
		Expect(report.Pages).To(Equal(1))
		Expect(report.HasText).To(BeTrue())
		Expect(report.Hash).To(HaveLen(64))
	})

	It("should reject a blank text file", func() {
		path := write("blank.txt", []byte(" \n\t"))
		_, err := inspector.Inspect(ctx, path)
		Expect(rejection(err)).To(Equal(preflight.MsgNoText))
	})

	It("should reject a file that is not a PDF", func() {
		path := write("fake.pdf", []byte("this is not a pdf"))
		_, err := inspector.Inspect(ctx, path)
		Expect(rejection(err)).To(Equal("The file is not a valid PDF."))
	})

	It("should accept a PDF with text", func() {
		path := write("lecture.pdf", minimalPDF("Photosynthesis"))

		report, err := inspector.Inspect(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Pages).To(Equal(1))
		Expect(report.HasText).To(BeTrue())
	})

	It("should reject a directory", func() {
		dir := filepath.Join(tempDir, "folder.pdf")
		Expect(os.Mkdir(dir, 0755)).To(Succeed())

		_, err := inspector.Inspect(ctx, dir)
		Expect(rejection(err)).To(ContainSubstring("not a directory"))
	})

	It("should report a missing file as a plain error", func() {
		_, err := inspector.Inspect(ctx, filepath.Join(tempDir, "missing.txt"))
		Expect(err).To(HaveOccurred())
		var rejected *preflight.RejectedError
		Expect(errors.As(err, &rejected)).To(BeFalse())
	})

	It("should stop when the context is cancelled", func() {
		path := write("notes.txt", []byte("text"))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := inspector.Inspect(cancelled, path)
		Expect(err).To(Equal(context.Canceled))
	})
})
