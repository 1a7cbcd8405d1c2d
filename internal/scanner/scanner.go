package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kpauljoseph/flashlearn/pkg/logger"
)

type UploadFile struct {
	AbsolutePath string
	RelativePath string
}

type DirectoryScanner struct {
	extensions map[string]bool
	logger     *logger.Logger
}

func New(extensions []string, log *logger.Logger) *DirectoryScanner {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &DirectoryScanner{
		extensions: allowed,
		logger:     log,
	}
}

// FindUploads walks dir for files with a supported extension, sorted by
// relative path.
func (s *DirectoryScanner) FindUploads(ctx context.Context, dir string) ([]UploadFile, error) {
	var files []UploadFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Trace("Scanning directory: %s", path)
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		s.logger.Debug("Found upload candidate: %s", relPath)
		files = append(files, UploadFile{
			AbsolutePath: absPath,
			RelativePath: relPath,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no uploadable files found in %s or its subdirectories", dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, nil
}

// SubjectFromPath names a subject after the directories and file name of
// relativePath, under an optional root name.
func SubjectFromPath(root, relativePath string) string {
	dirPath := filepath.Dir(relativePath)
	if dirPath == "." {
		dirPath = ""
	}

	fileName := strings.TrimSuffix(filepath.Base(relativePath), filepath.Ext(relativePath))

	var parts []string
	if root != "" {
		parts = append(parts, root)
	}
	if dirPath != "" {
		parts = append(parts, strings.Split(dirPath, string(filepath.Separator))...)
	}
	parts = append(parts, fileName)

	return strings.Join(parts, " / ")
}
