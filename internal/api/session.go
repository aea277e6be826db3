package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/recorder"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/voice"
	"github.com/go-chi/chi/v5"
)

// maxRequestBodySize bounds control-surface request bodies (1MB).
const maxRequestBodySize = 1 << 20

// RegisterRoutes registers the session control routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start", h.Start)
	r.Get("/stop", h.Stop)
	r.Post("/record-action", h.RecordAction)
	r.Get("/status", h.GetStatus)
	if h.repo != nil {
		r.Route("/api", func(r chi.Router) {
			r.Get("/sessions", h.ListSessions)
		})
	}
}

// startRequest is the /start request body.
type startRequest struct {
	PageName string `json:"pageName"`
	PageURL  string `json:"pageUrl"`
	Mode     string `json:"mode"`
	FilePath string `json:"filePath"`
}

// Start begins a recording session.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		Status(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PageName == "" || req.PageURL == "" {
		Status(w, http.StatusBadRequest, "pageName and pageUrl are required")
		return
	}

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		Status(w, http.StatusBadRequest, err.Error())
		return
	}

	language := r.Header.Get("Language")
	if language == "" {
		language = voice.DefaultLanguage
	}

	err = h.manager.Start(recorder.StartRequest{
		PageName: req.PageName,
		PageURL:  req.PageURL,
		Mode:     mode,
		Language: language,
		FilePath: req.FilePath,
	})
	if errors.Is(err, recorder.ErrAlreadyRecording) {
		Status(w, http.StatusBadRequest, "A session is already running")
		return
	}
	if err != nil {
		slog.Error("Failed to start session", "error", err)
		Status(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	Status(w, http.StatusOK, fmt.Sprintf("Session started in %s mode", mode))
}

// Stop ends the current recording session.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	err := h.manager.Stop()
	if errors.Is(err, recorder.ErrNotRecording) {
		Status(w, http.StatusBadRequest, "A session is not running")
		return
	}
	if err != nil {
		slog.Error("Failed to stop session", "error", err)
		Status(w, http.StatusInternalServerError, "Failed to stop session")
		return
	}
	Status(w, http.StatusOK, "Session stopped")
}

// RecordAction accepts one raw event from the page.
func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	var event domain.RawEvent
	if err := decodeBody(w, r, &event); err != nil {
		Status(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.manager.Record(&event)
	if errors.Is(err, recorder.ErrNotRecording) {
		Status(w, http.StatusBadRequest, "Not recording")
		return
	}
	if err != nil {
		slog.Error("Failed to record action", "error", err, "type", event.Type)
		Status(w, http.StatusInternalServerError, "Failed to record action")
		return
	}

	switch outcome {
	case recorder.OutcomeInitialState:
		Status(w, http.StatusOK, "Initial state recorded")
	case recorder.OutcomeAlreadyRecorded:
		Status(w, http.StatusOK, "Initial state already recorded")
	case recorder.OutcomeIgnored:
		Status(w, http.StatusOK, "State change event ignored")
	case recorder.OutcomeDropped:
		Status(w, http.StatusOK, "Action ignored")
	default:
		Status(w, http.StatusOK, "Action recorded")
	}
}

// GetStatus reports whether a session is recording.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]bool{"running": h.manager.Running()})
}

// sessionResponse is the JSON shape of one indexed session.
type sessionResponse struct {
	ID             string     `json:"id"`
	PageName       string     `json:"pageName"`
	PageURL        string     `json:"pageUrl"`
	Mode           string     `json:"mode"`
	Language       string     `json:"language"`
	ScriptPath     string     `json:"scriptPath"`
	TranscriptPath string     `json:"transcriptPath"`
	StartedAt      time.Time  `json:"startedAt"`
	StoppedAt      *time.Time `json:"stoppedAt,omitempty"`
	StepCount      int64      `json:"stepCount"`
}

// ListSessions returns the recording history, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.repo.ListSessions(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list sessions", "error", err)
		Status(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	sessions := make([]sessionResponse, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, sessionResponse{
			ID:             rec.ID,
			PageName:       rec.PageName,
			PageURL:        rec.PageURL,
			Mode:           string(rec.Mode),
			Language:       rec.Language,
			ScriptPath:     rec.ScriptPath,
			TranscriptPath: rec.TranscriptPath,
			StartedAt:      rec.StartedAt,
			StoppedAt:      rec.StoppedAt,
			StepCount:      rec.StepCount,
		})
	}
	JSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}
