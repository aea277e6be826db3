package recorder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// Normalizer converts raw events into canonical interactions. Events with a
// missing required payload are dropped with a warning; unknown kinds are
// warned about once per kind per session to avoid log flooding.
type Normalizer struct {
	mu     sync.Mutex
	warned map[string]bool
}

// NewNormalizer creates a normalizer with a fresh warn-once set.
func NewNormalizer() *Normalizer {
	return &Normalizer{warned: make(map[string]bool)}
}

// Normalize resolves a raw event into an interaction. The second return is
// false when the event is dropped.
func (n *Normalizer) Normalize(e *domain.RawEvent) (domain.Interaction, bool) {
	now := time.Now()

	switch e.Type {
	case domain.RawClick:
		selector := e.Locator()
		if selector == "" {
			slog.Warn("Dropping click event with no usable selector")
			return domain.Interaction{}, false
		}
		return domain.Interaction{Kind: domain.KindClick, Timestamp: now, Selector: selector}, true

	case domain.RawInput:
		text := e.InputText()
		if text == "" {
			slog.Warn("Dropping input event with no text")
			return domain.Interaction{}, false
		}
		return domain.Interaction{Kind: domain.KindInput, Timestamp: now, Selector: e.Locator(), Text: text}, true

	case domain.RawKeypress:
		if e.Key != "Enter" {
			n.warnOnce("keypress:"+e.Key, "Dropping unhandled keypress", "key", e.Key)
			return domain.Interaction{}, false
		}
		return domain.Interaction{Kind: domain.KindKeypressEnter, Timestamp: now, Selector: e.Locator()}, true

	case domain.RawEnter:
		return domain.Interaction{Kind: domain.KindKeypressEnter, Timestamp: now, Selector: e.Locator()}, true

	case domain.RawBack:
		return domain.Interaction{Kind: domain.KindBack, Timestamp: now}, true

	case domain.RawForward:
		return domain.Interaction{Kind: domain.KindForward, Timestamp: now}, true

	case domain.RawGo:
		if e.Direction == 0 {
			slog.Warn("Dropping scroll event with no direction")
			return domain.Interaction{}, false
		}
		return domain.Interaction{Kind: domain.KindScroll, Timestamp: now, Direction: e.Direction, Units: e.Units}, true

	case domain.RawViewportChange:
		if e.Viewport == nil {
			slog.Warn("Dropping viewport change with no dimensions")
			return domain.Interaction{}, false
		}
		return domain.Interaction{
			Kind:      domain.KindViewportChange,
			Timestamp: now,
			Width:     e.Viewport.Width,
			Height:    e.Viewport.Height,
		}, true

	case domain.RawInitialState, domain.RawZoomChange:
		// These are intercepted by the session manager before normalization;
		// one arriving here means a caller bypassed the manager.
		slog.Warn("State change event reached normalizer, dropping", "type", e.Type)
		return domain.Interaction{}, false

	default:
		n.warnOnce(e.Type, "Dropping event of unhandled kind", "type", e.Type)
		return domain.Interaction{}, false
	}
}

func (n *Normalizer) warnOnce(key, msg string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.warned[key] {
		return
	}
	n.warned[key] = true
	slog.Warn(msg, args...)
}
