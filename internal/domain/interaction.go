// Package domain defines the core types shared across the recording pipeline.
package domain

import "time"

// Kind identifies the canonical interaction variant.
type Kind string

// Canonical interaction kinds.
const (
	KindClick          Kind = "click"
	KindInput          Kind = "input"
	KindKeypressEnter  Kind = "keypress-enter"
	KindBack           Kind = "back"
	KindForward        Kind = "forward"
	KindScroll         Kind = "scroll"
	KindViewportChange Kind = "viewport-change"
	KindZoomChange     Kind = "zoom-change"
)

// Scroll direction convention: up is negative, down is positive.
// The sign is fixed here so the rest of the pipeline never has to guess.
const (
	ScrollUp   = -1
	ScrollDown = 1
)

// Interaction is one canonical user action captured during a session.
// It is created once by the normalizer or the voice interpreter and is
// never mutated afterwards.
type Interaction struct {
	Kind      Kind
	Timestamp time.Time

	// Selector is the resolved element locator for click, input and
	// keypress-enter interactions.
	Selector string

	// Text is the typed text for input interactions.
	Text string

	// Direction and Units describe a scroll interaction.
	Direction int
	Units     int

	// Width and Height describe a viewport-change interaction.
	Width  int
	Height int
}

// Viewport is the window size reported by the page.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Raw event types as posted by the browser extension.
const (
	RawClick          = "click"
	RawInput          = "input"
	RawKeypress       = "keypress"
	RawEnter          = "enter"
	RawBack           = "back"
	RawForward        = "forward"
	RawGo             = "go"
	RawViewportChange = "viewportChange"
	RawInitialState   = "initialState"
	RawZoomChange     = "zoomChange"
)

// RawEvent is the wire shape reported by the extension's content script or
// synthesized by the voice interpreter. It is resolved into an Interaction
// exactly once, at the normalizer boundary.
type RawEvent struct {
	Type             string    `json:"type"`
	XPath            string    `json:"xpath,omitempty"`
	Href             string    `json:"href,omitempty"`
	ID               string    `json:"id,omitempty"`
	Text             string    `json:"text,omitempty"`
	Value            string    `json:"value,omitempty"`
	Key              string    `json:"key,omitempty"`
	TagName          string    `json:"tagName,omitempty"`
	URL              string    `json:"url,omitempty"`
	Viewport         *Viewport `json:"viewport,omitempty"`
	DevicePixelRatio float64   `json:"devicePixelRatio,omitempty"`
	Direction        int       `json:"direction,omitempty"`
	Units            int       `json:"units,omitempty"`
}

// Locator returns the element locator for the event, first non-empty of
// href, id and xpath.
func (e *RawEvent) Locator() string {
	if e.Href != "" {
		return e.Href
	}
	if e.ID != "" {
		return e.ID
	}
	return e.XPath
}

// InputText returns the typed text for an input event. The extension sends
// it as "value"; the voice interpreter sends it as "text".
func (e *RawEvent) InputText() string {
	if e.Value != "" {
		return e.Value
	}
	return e.Text
}

// IsStructuralLocator reports whether the locator looks like a structural
// path (XPath). Older revisions kept separate href/id fast paths; locator
// classification is now uniform by shape.
func IsStructuralLocator(locator string) bool {
	return len(locator) > 0 && (locator[0] == '/' || locator[0] == '(')
}
