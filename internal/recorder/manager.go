package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/automation"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/gaze"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/script"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/store"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/voice"
)

// Session state errors, surfaced to the control surface as rejections.
var (
	ErrAlreadyRecording = errors.New("a session is already running")
	ErrNotRecording     = errors.New("no session is running")
)

// Outcome describes what happened to a recorded event.
type Outcome int

// Record outcomes.
const (
	// OutcomeQueued means the event was normalized and enqueued.
	OutcomeQueued Outcome = iota
	// OutcomeDropped means the event was rejected by the normalizer.
	OutcomeDropped
	// OutcomeInitialState means the event triggered the one-time retrofit.
	OutcomeInitialState
	// OutcomeAlreadyRecorded means the retrofit had already happened.
	OutcomeAlreadyRecorded
	// OutcomeIgnored means the event is a state-change notification with no
	// step representation.
	OutcomeIgnored
)

// StartRequest carries the parameters of a session start.
type StartRequest struct {
	PageName string
	PageURL  string
	Mode     domain.Mode
	Language string
	FilePath string
}

// session is the per-recording state owned by the manager.
type session struct {
	id                  string
	mode                domain.Mode
	language            string
	startedAt           time.Time
	doc                 *script.Document
	transcript          *script.Transcript
	queue               *Queue
	norm                *Normalizer
	ser                 *Serializer
	cancel              context.CancelFunc
	initialStateWritten bool
}

// Manager owns the session lifecycle. At most one session records at a
// time; all session-scoped state lives behind the manager's mutex rather
// than in package globals.
type Manager struct {
	outputDir  string
	repo       store.Repository
	relay      voice.Publisher
	control    automation.Controller
	utterances voice.Source
	tracker    *gaze.Tracker

	mu    sync.Mutex
	state domain.SessionState
	sess  *session
}

// NewManager creates a session manager. repo may be nil to disable the
// session index.
func NewManager(outputDir string, repo store.Repository, relay voice.Publisher, control automation.Controller, utterances voice.Source, tracker *gaze.Tracker) *Manager {
	return &Manager{
		outputDir:  outputDir,
		repo:       repo,
		relay:      relay,
		control:    control,
		utterances: utterances,
		tracker:    tracker,
		state:      domain.StateIdle,
	}
}

// Running reports whether a session is currently recording.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == domain.StateRecording
}

// Start begins a new recording session: allocates the output and transcript
// paths, writes the document header, and launches the serializer plus the
// mode-dependent voice and gaze workers. The header is on disk before any
// interaction can be accepted.
func (m *Manager) Start(req StartRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == domain.StateRecording {
		return ErrAlreadyRecording
	}

	startedAt := time.Now()
	id := startedAt.Format("2006-01-02_15-04-05")

	scriptPath, err := m.resolveScriptPath(req.FilePath, id)
	if err != nil {
		return err
	}
	transcriptPath := filepath.Join(filepath.Dir(scriptPath), "transcription_"+id+".txt")

	doc := script.NewDocument(scriptPath)
	if err := doc.WriteHeader(req.PageName, req.PageURL, startedAt); err != nil {
		return err
	}

	queue := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:         id,
		mode:       req.Mode,
		language:   req.Language,
		startedAt:  startedAt,
		doc:        doc,
		transcript: script.NewTranscript(transcriptPath),
		queue:      queue,
		norm:       NewNormalizer(),
		ser:        NewSerializer(queue, doc),
		cancel:     cancel,
	}
	m.sess = s
	m.state = domain.StateRecording

	go s.ser.Run(ctx)

	if req.Mode.UsesVoice() {
		profile := voice.ProfileFor(req.Language)
		interp := voice.NewInterpreter(profile, m, m.relay, s.transcript, m.tracker, m.control)
		go voice.NewListener(m.utterances, interp).Run(ctx)
	}
	if req.Mode.UsesGaze() {
		go m.tracker.Run(ctx)
	}

	if m.repo != nil {
		insertCtx, insertCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer insertCancel()
		rec := &domain.SessionRecord{
			ID:             id,
			PageName:       req.PageName,
			PageURL:        req.PageURL,
			Mode:           req.Mode,
			Language:       req.Language,
			ScriptPath:     scriptPath,
			TranscriptPath: transcriptPath,
			StartedAt:      startedAt,
		}
		if err := m.repo.InsertSession(insertCtx, rec); err != nil {
			slog.Error("Failed to index session, recording continues", "error", err, "session_id", id)
		}
	}

	slog.Info("Session started",
		"session_id", id,
		"mode", req.Mode,
		"script", scriptPath,
		"transcript", transcriptPath)
	return nil
}

// Stop ends the current session. Producers halt cooperatively at their next
// iteration; the serializer keeps draining queued interactions and is never
// cut off mid-write.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateRecording {
		return ErrNotRecording
	}

	s := m.sess
	s.cancel()
	m.state = domain.StateStopped

	slog.Info("Session stopped", "session_id", s.id, "queued", s.queue.Len())

	if m.repo != nil {
		// Record the final step count once the drain finishes.
		go func() {
			s.ser.Wait()
			finishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.repo.FinishSession(finishCtx, s.id, time.Now(), s.ser.Steps()); err != nil {
				slog.Error("Failed to finalize session index", "error", err, "session_id", s.id)
			}
		}()
	}
	return nil
}

// Record routes one raw event: initial-state events trigger the one-time
// retrofit, zoom notifications are acknowledged and ignored, everything
// else goes through the normalizer onto the queue.
func (m *Manager) Record(e *domain.RawEvent) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateRecording {
		return OutcomeIgnored, ErrNotRecording
	}

	switch e.Type {
	case domain.RawInitialState:
		return m.recordInitialStateLocked(e.Viewport, e.DevicePixelRatio), nil
	case domain.RawZoomChange:
		return OutcomeIgnored, nil
	}

	it, ok := m.sess.norm.Normalize(e)
	if !ok {
		return OutcomeDropped, nil
	}
	m.sess.queue.Enqueue(it)
	return OutcomeQueued, nil
}

// RecordInitialState performs the one-time viewport/zoom retrofit on the
// output document. The second and later calls are no-ops with a distinct
// outcome.
func (m *Manager) RecordInitialState(viewport *domain.Viewport, pixelRatio float64) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateRecording {
		return OutcomeIgnored, ErrNotRecording
	}
	return m.recordInitialStateLocked(viewport, pixelRatio), nil
}

// recordInitialStateLocked runs the retrofit. Caller holds mu, which also
// serializes it against concurrent Record calls; the document's own lock
// serializes the rewrite against serializer appends.
func (m *Manager) recordInitialStateLocked(viewport *domain.Viewport, pixelRatio float64) Outcome {
	s := m.sess
	if s.initialStateWritten {
		return OutcomeAlreadyRecorded
	}
	if viewport == nil || pixelRatio == 0 {
		slog.Warn("Initial state event missing viewport or pixel ratio, ignoring")
		return OutcomeIgnored
	}

	// Marked as attempted even if the navigation line is missing or the
	// rewrite fails; the retrofit runs at most once per session.
	s.initialStateWritten = true

	if err := s.doc.InsertInitialState(viewport.Width, viewport.Height, pixelRatio); err != nil {
		slog.Error("Failed to write initial state steps", "error", err, "session_id", s.id)
		return OutcomeIgnored
	}
	return OutcomeInitialState
}

// Submit accepts interpreter-emitted events. It is the voice pipeline's
// sink; events arriving after stop are discarded.
func (m *Manager) Submit(e *domain.RawEvent) {
	if _, err := m.Record(e); err != nil {
		slog.Debug("Discarding event, not recording", "type", e.Type)
	}
}

// Session returns a snapshot of the current session record, or nil when no
// session has been started.
func (m *Manager) Session() *domain.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	return &domain.SessionRecord{
		ID:             m.sess.id,
		Mode:           m.sess.mode,
		Language:       m.sess.language,
		ScriptPath:     m.sess.doc.Path(),
		TranscriptPath: m.sess.transcript.Path(),
		StartedAt:      m.sess.startedAt,
		StepCount:      m.sess.ser.Steps(),
	}
}

// resolveScriptPath computes the output document path: an explicit file or
// directory override wins, otherwise the configured output directory plus a
// timestamped filename. Parent directories are created; failure here aborts
// the start.
func (m *Manager) resolveScriptPath(custom, id string) (string, error) {
	filename := "test_session_" + id + ".feature"
	path := filepath.Join(m.outputDir, filename)
	if custom != "" {
		if info, err := os.Stat(custom); err == nil && info.IsDir() {
			path = filepath.Join(custom, filename)
		} else {
			path = custom
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return path, nil
}
