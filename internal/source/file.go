package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads a document from a file, or from stdin when Path is empty or "-"
type FileSource struct {
	Path      string
	IssuePath string
	Stdin     io.Reader
}

// NewFileSource creates a file source
func NewFileSource(path, issuePath string) *FileSource {
	return &FileSource{Path: path, IssuePath: issuePath, Stdin: os.Stdin}
}

// Name returns the file path or "stdin"
func (s *FileSource) Name() string {
	if s.fromStdin() {
		return "stdin"
	}
	return s.Path
}

// Load reads and decodes the document, then overlays the issue file if one is set
func (s *FileSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		doc *Document
		err error
	)
	if s.fromStdin() {
		doc, err = ReadDocument(s.Stdin)
	} else {
		doc, err = readDocumentFile(s.Path)
	}
	if err != nil {
		return nil, err
	}

	if s.IssuePath != "" {
		if err := ValidateFilePath(s.IssuePath); err != nil {
			return nil, fmt.Errorf("invalid issue path: %w", err)
		}
		// #nosec G304 - path is validated above
		file, err := os.Open(s.IssuePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open issue file: %w", err)
		}
		defer func() { _ = file.Close() }()

		issue, err := ReadIssue(file)
		if err != nil {
			return nil, err
		}
		doc.Issue = issue
	}

	return doc, nil
}

func (s *FileSource) fromStdin() bool {
	return s.Path == "" || s.Path == "-"
}

func readDocumentFile(path string) (*Document, error) {
	if err := ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	// #nosec G304 - path is validated above
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	doc, err := ReadDocument(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ValidateFilePath rejects empty paths, traversal and directories
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, must be a file")
	}
	return nil
}
