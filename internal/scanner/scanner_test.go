package scanner_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashlearn/internal/scanner"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
)

var _ = Describe("Scanner", func() {
	var (
		testDir    string
		testLogger *logger.Logger
		ctx        context.Context
		extensions = []string{"pdf", ".TXT"}
	)

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "scanner-test-*")
		Expect(err).NotTo(HaveOccurred())

		testLogger = logger.New(logger.WithOutput(GinkgoWriter), logger.WithPrefix("[test] "))
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(testDir)
	})

	Context("when scanning an empty directory", func() {
		It("should return an error", func() {
			s := scanner.New(extensions, testLogger)
			_, err := s.FindUploads(ctx, testDir)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no uploadable files found"))
		})
	})

	Context("when scanning a directory with supported files", func() {
		BeforeEach(func() {
			for i := 1; i <= 2; i++ {
				err := os.WriteFile(
					filepath.Join(testDir, fmt.Sprintf("lecture%d.pdf", i)),
					[]byte("dummy pdf content"),
					0644,
				)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(os.WriteFile(filepath.Join(testDir, "notes.TXT"), []byte("notes"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(testDir, "slides.pptx"), []byte("slides"), 0644)).To(Succeed())
		})

		It("should find only supported files in path order", func() {
			s := scanner.New(extensions, testLogger)
			files, err := s.FindUploads(ctx, testDir)

			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(HaveLen(3))

			var names []string
			for _, f := range files {
				names = append(names, f.RelativePath)
				Expect(filepath.IsAbs(f.AbsolutePath)).To(BeTrue())
			}
			Expect(names).To(Equal([]string{"lecture1.pdf", "lecture2.pdf", "notes.TXT"}))
		})
	})

	Context("when scanning nested directories", func() {
		BeforeEach(func() {
			nestedDir := filepath.Join(testDir, "nested")
			Expect(os.MkdirAll(nestedDir, 0755)).To(Succeed())

			files := []string{
				filepath.Join(testDir, "root.pdf"),
				filepath.Join(nestedDir, "nested.txt"),
			}

			for _, file := range files {
				Expect(os.WriteFile(file, []byte("content"), 0644)).To(Succeed())
			}
		})

		It("should find files in all subdirectories", func() {
			s := scanner.New(extensions, testLogger)
			files, err := s.FindUploads(ctx, testDir)

			Expect(err).NotTo(HaveOccurred())
			var names []string
			for _, f := range files {
				names = append(names, f.RelativePath)
			}
			Expect(names).To(ConsistOf("root.pdf", filepath.Join("nested", "nested.txt")))
		})
	})

	Context("when context is cancelled", func() {
		It("should stop scanning", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			s := scanner.New(extensions, testLogger)
			_, err := s.FindUploads(cancelled, testDir)

			Expect(err).To(Equal(context.Canceled))
		})
	})

	DescribeTable("SubjectFromPath",
		func(root, relativePath, expected string) {
			Expect(scanner.SubjectFromPath(root, relativePath)).To(Equal(expected))
		},
		Entry("file only", "", "cells.pdf", "cells"),
		Entry("with root", "Biology", "cells.pdf", "Biology / cells"),
		Entry("nested", "", filepath.Join("year1", "term2", "cells.txt"), "year1 / term2 / cells"),
		Entry("nested with root", "School", filepath.Join("year1", "cells.pdf"), "School / year1 / cells"),
	)
})
