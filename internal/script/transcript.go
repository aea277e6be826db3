package script

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Transcript is the session's append-only voice transcript: one timestamped
// line per recognized utterance.
type Transcript struct {
	mu   sync.Mutex
	path string
}

// NewTranscript creates a transcript handle for the given path. The file is
// created lazily on the first append.
func NewTranscript(path string) *Transcript {
	return &Transcript{path: path}
}

// Path returns the transcript's file path.
func (t *Transcript) Path() string {
	return t.path
}

// Append writes one utterance line to the transcript.
func (t *Transcript) Append(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close transcript", "error", closeErr, "path", t.path)
		}
	}()

	line := fmt.Sprintf("%s - %s\n", time.Now().Format("2006-01-02 15:04:05"), text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append transcript line: %w", err)
	}
	return nil
}
