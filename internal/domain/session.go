package domain

import (
	"fmt"
	"time"
)

// Mode selects which input producers a recording session runs.
type Mode string

// Recording modes.
const (
	ModeEyeVoice  Mode = "eye-voice"
	ModeVoiceOnly Mode = "voice-only"
	ModeEyeOnly   Mode = "eye-only"
	ModeManual    Mode = "manual"
)

// ParseMode validates a mode string. An empty string defaults to eye-voice,
// matching what the extension sends when the selector is untouched.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeEyeVoice, nil
	case ModeEyeVoice, ModeVoiceOnly, ModeEyeOnly, ModeManual:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// UsesVoice reports whether the mode runs the voice pipeline.
func (m Mode) UsesVoice() bool {
	return m == ModeEyeVoice || m == ModeVoiceOnly
}

// UsesGaze reports whether the mode runs the gaze follower.
func (m Mode) UsesGaze() bool {
	return m == ModeEyeVoice || m == ModeEyeOnly
}

// SessionState is the lifecycle state of a recording session.
type SessionState int

// Session lifecycle states.
const (
	StateIdle SessionState = iota
	StateRecording
	StateStopped
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SessionRecord is the persisted summary of one recording session.
type SessionRecord struct {
	ID             string
	PageName       string
	PageURL        string
	Mode           Mode
	Language       string
	ScriptPath     string
	TranscriptPath string
	StartedAt      time.Time
	StoppedAt      *time.Time
	StepCount      int64
}
