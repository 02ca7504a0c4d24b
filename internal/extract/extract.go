// Package extract defines the file-to-text collaborator contract. Parsing of
// rich formats lives outside the core; the bundled implementation serves
// plain-text documents from the upload directory.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractionError signals that a referenced file could not be read or
// yielded no text. It fails the owning job.
type ExtractionError struct {
	FileID string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text for file %q: %s", e.FileID, e.Err.Error())
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor produces plain text for a stored file identifier.
type Extractor interface {
	ExtractText(ctx context.Context, fileID string) (string, error)
}

// FileExtractor reads documents stored as plain text under a base directory,
// trying the known extensions in order.
type FileExtractor struct {
	baseDir    string
	extensions []string
}

// NewFileExtractor creates an extractor rooted at baseDir.
func NewFileExtractor(baseDir string) *FileExtractor {
	return &FileExtractor{
		baseDir:    baseDir,
		extensions: []string{".txt", ".md", ""},
	}
}

// ExtractText returns the file's contents. File ids must not escape the base
// directory.
func (f *FileExtractor) ExtractText(_ context.Context, fileID string) (string, error) {
	if strings.Contains(fileID, "..") || strings.ContainsRune(fileID, os.PathSeparator) {
		return "", &ExtractionError{FileID: fileID, Err: fmt.Errorf("invalid file id")}
	}

	var lastErr error
	for _, ext := range f.extensions {
		data, err := os.ReadFile(filepath.Join(f.baseDir, fileID+ext))
		if err != nil {
			lastErr = err
			continue
		}

		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", &ExtractionError{FileID: fileID, Err: fmt.Errorf("file is empty")}
		}
		return text, nil
	}

	return "", &ExtractionError{FileID: fileID, Err: lastErr}
}
