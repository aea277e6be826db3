// Package automation defines the boundary to the OS input-injection
// collaborator that performs physical clicks, keystrokes and scrolling.
package automation

import "log/slog"

// Controller performs input actions on the operating system. The real
// implementation lives outside this module; the pipeline only depends on
// this interface.
type Controller interface {
	// TypeText inserts literal text at the current input focus.
	TypeText(text string)

	// PressEnter presses the Enter key.
	PressEnter()

	// Click performs a mouse click at the current cursor position.
	Click()

	// MoveCursor moves the cursor to absolute screen coordinates.
	MoveCursor(x, y int)

	// Scroll scrolls the page. Direction follows the pipeline convention:
	// negative is up, positive is down.
	Scroll(direction, units int)

	// HistoryBack navigates the browser history back.
	HistoryBack()

	// HistoryForward navigates the browser history forward.
	HistoryForward()
}

// NopController logs requested actions without performing them. It is the
// default when no OS automation backend is wired in.
type NopController struct{}

// TypeText logs the text insert request.
func (NopController) TypeText(text string) {
	slog.Debug("automation: type text", "text", text)
}

// PressEnter logs the enter keypress request.
func (NopController) PressEnter() {
	slog.Debug("automation: press enter")
}

// Click logs the click request.
func (NopController) Click() {
	slog.Debug("automation: click")
}

// MoveCursor logs the cursor move request.
func (NopController) MoveCursor(x, y int) {
	slog.Debug("automation: move cursor", "x", x, "y", y)
}

// Scroll logs the scroll request.
func (NopController) Scroll(direction, units int) {
	slog.Debug("automation: scroll", "direction", direction, "units", units)
}

// HistoryBack logs the history-back request.
func (NopController) HistoryBack() {
	slog.Debug("automation: history back")
}

// HistoryForward logs the history-forward request.
func (NopController) HistoryForward() {
	slog.Debug("automation: history forward")
}
