package voice

import (
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/automation"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// scrollUnits is the fixed scroll amount for voice scroll commands.
const scrollUnits = 10

// Sink accepts raw events produced by the interpreter for normalization and
// serialization.
type Sink interface {
	Submit(e *domain.RawEvent)
}

// Publisher forwards command strings to connected remote clients.
type Publisher interface {
	Publish(msg string)
}

// Transcriber appends recognized utterances to the session transcript.
type Transcriber interface {
	Append(text string) error
}

// GazeReader answers "where is the user looking right now".
type GazeReader interface {
	Position() (x, y int)
}

// Interpreter parses recognized utterances into interactions. It owns the
// session's typing-mode state machine: while typing, utterances are dictated
// text accumulated in a buffer and typed live; otherwise they are matched
// against the control vocabulary.
type Interpreter struct {
	profile    Profile
	sink       Sink
	relay      Publisher
	transcript Transcriber
	gaze       GazeReader
	control    automation.Controller

	mu     sync.Mutex
	typing bool
	buffer string
}

// NewInterpreter creates an interpreter with the given vocabulary and
// collaborators.
func NewInterpreter(profile Profile, sink Sink, relay Publisher, transcript Transcriber, gaze GazeReader, control automation.Controller) *Interpreter {
	return &Interpreter{
		profile:    profile,
		sink:       sink,
		relay:      relay,
		transcript: transcript,
		gaze:       gaze,
		control:    control,
	}
}

// TypingMode reports whether the interpreter is currently in typing mode.
func (i *Interpreter) TypingMode() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.typing
}

// Buffer returns the accumulated dictated text.
func (i *Interpreter) Buffer() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.buffer
}

// HandleUtterance processes one recognized utterance. Every utterance is
// transcribed and published verbatim on the relay regardless of whether it
// matches a command.
func (i *Interpreter) HandleUtterance(utterance string) {
	utterance = strings.ToLower(strings.TrimSpace(utterance))
	if utterance == "" {
		return
	}
	words := strings.Fields(utterance)

	if err := i.transcript.Append(utterance); err != nil {
		slog.Error("Failed to transcribe utterance", "error", err)
	}
	i.relay.Publish(utterance)

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.typing {
		i.handleTyping(utterance, words)
		return
	}
	i.handleIdle(words)
}

// handleTyping processes an utterance while in typing mode. Caller holds mu.
func (i *Interpreter) handleTyping(utterance string, words []string) {
	if slices.ContainsFunc(words, i.profile.isExitWord) {
		i.typing = false
		i.flushBuffer()
		i.control.PressEnter()
		i.sink.Submit(&domain.RawEvent{Type: domain.RawEnter})
		return
	}

	// A bare control phrase interrupts dictation without an enter press.
	if i.profile.isControlWord(utterance) {
		i.typing = false
		i.flushBuffer()
		if utterance == i.profile.Click {
			i.requestGazeClick()
		}
		return
	}

	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if !i.profile.isControlWord(w) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) > 0 {
		// The leading space separates dictated chunks; the live typing
		// effect is immediate, the buffer is only for later logging.
		typed := " " + strings.Join(filtered, " ")
		i.buffer += typed
		i.control.TypeText(typed)
	}
}

// handleIdle matches an utterance against the control vocabulary. Priority
// is fixed: trigger, click, go-back, go-forward, go-scroll, bare back, bare
// forward. Caller holds mu.
func (i *Interpreter) handleIdle(words []string) {
	if slices.Contains(words, i.profile.Trigger) {
		i.typing = true
		return
	}

	if slices.Contains(words, i.profile.Click) {
		i.requestGazeClick()
		return
	}

	if slices.Contains(words, i.profile.Go) {
		switch {
		case slices.Contains(words, i.profile.Back):
			i.control.HistoryBack()
			i.sink.Submit(&domain.RawEvent{Type: domain.RawBack})
		case slices.Contains(words, i.profile.Forward):
			i.control.HistoryForward()
			i.sink.Submit(&domain.RawEvent{Type: domain.RawForward})
		default:
			dir, ok := i.profile.directionOf(words)
			if !ok {
				slog.Info("Scroll command without a valid direction", "words", words)
				return
			}
			i.control.Scroll(dir, scrollUnits)
			i.sink.Submit(&domain.RawEvent{Type: domain.RawGo, Direction: dir, Units: scrollUnits})
		}
		return
	}

	if slices.Contains(words, i.profile.Back) {
		i.control.HistoryBack()
		i.sink.Submit(&domain.RawEvent{Type: domain.RawBack})
	} else if slices.Contains(words, i.profile.Forward) {
		i.control.HistoryForward()
		i.sink.Submit(&domain.RawEvent{Type: domain.RawForward})
	}
}

// flushBuffer submits the accumulated dictated text as one input event and
// clears the buffer. Caller holds mu.
func (i *Interpreter) flushBuffer() {
	text := strings.TrimSpace(i.buffer)
	i.buffer = ""
	if text == "" {
		return
	}
	i.sink.Submit(&domain.RawEvent{Type: domain.RawInput, Text: text})
}

// clickCommand is the structured relay message asking the page to click at
// screen coordinates.
type clickCommand struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// requestGazeClick publishes a click request at the current gaze position.
func (i *Interpreter) requestGazeClick() {
	x, y := i.gaze.Position()
	msg, err := json.Marshal(clickCommand{Action: "click_at_coordinates", X: x, Y: y})
	if err != nil {
		slog.Error("Failed to encode click command", "error", err)
		return
	}
	i.relay.Publish(string(msg))
}
