package script

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Document is the session's output feature file. Appends from the serializer
// and the one-time initial-state retrofit share the same mutex; the retrofit
// is a read-modify-write of the whole file and must never interleave with an
// append.
type Document struct {
	mu   sync.Mutex
	path string
}

// NewDocument creates a document handle for the given path. Nothing is
// written until WriteHeader.
func NewDocument(path string) *Document {
	return &Document{path: path}
}

// Path returns the document's file path.
func (d *Document) Path() string {
	return d.path
}

// WriteHeader creates (or truncates) the file and writes the fixed header.
func (d *Document) WriteHeader(pageName, pageURL string, startedAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.WriteFile(d.path, []byte(Header(pageName, pageURL, startedAt)), 0644); err != nil {
		return fmt.Errorf("write document header: %w", err)
	}
	return nil
}

// AppendStep appends one step line to the document.
func (d *Document) AppendStep(line string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open document for append: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close document after append", "error", closeErr, "path", d.path)
		}
	}()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append step: %w", err)
	}
	return nil
}

// InsertInitialState inserts the viewport and zoom steps immediately before
// the navigation step. The whole file is re-read and rewritten under the
// document lock. If the navigation step cannot be found the insert is
// skipped without error.
func (d *Document) InsertInitialState(width, height int, pixelRatio float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("read document for retrofit: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	navigateIndex := -1
	for i, line := range lines {
		if strings.Contains(line, navigationMarker) {
			navigateIndex = i
			break
		}
	}
	if navigateIndex == -1 {
		slog.Warn("Navigation step not found, skipping initial state insert", "path", d.path)
		return nil
	}

	inserted := []string{ViewportStep(width, height), ZoomStep(pixelRatio)}
	lines = append(lines[:navigateIndex], append(inserted, lines[navigateIndex:]...)...)

	if err := os.WriteFile(d.path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("rewrite document for retrofit: %w", err)
	}
	return nil
}
