// Package script renders interactions into the scripted-test grammar and
// owns the session's output artifacts.
package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// navigationMarker is the content match used to locate the navigation step
// when retrofitting the initial-state lines.
const navigationMarker = "Given I navigate to page"

// locatorKind is the locator keyword rendered into every element step.
// Locators may structurally be hrefs or ids, but the replay step definitions
// only accept xpath, so the keyword is fixed. Candidate fix if the replayer
// ever learns other locator kinds.
const locatorKind = "xpath"

// Header returns the fixed document header: feature title, tag line,
// scenario line and the initial navigation step.
func Header(pageName, pageURL string, startedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: Replay of session on %s\n\n", startedAt.Format("Jan 02 at 03:04:05 PM"))
	b.WriteString("@user1 @web\n")
	fmt.Fprintf(&b, "Scenario: User interacts with the web page named %q\n\n", pageName)
	fmt.Fprintf(&b, "\tGiven I navigate to page %q\n", pageURL)
	return b.String()
}

// ViewportStep renders the retrofit viewport line.
func ViewportStep(width, height int) string {
	return fmt.Sprintf("\tGiven I set the viewport to %dx%d", width, height)
}

// ZoomStep renders the retrofit zoom line.
func ZoomStep(ratio float64) string {
	return fmt.Sprintf("\tAnd I set zoom ratio to %g", ratio)
}

// RenderStep renders one interaction into a single step line, without a
// trailing newline. The second return is false when the interaction kind
// has no step representation.
func RenderStep(it domain.Interaction) (string, bool) {
	switch it.Kind {
	case domain.KindClick:
		return fmt.Sprintf("\tAnd I click on element with %s %q", locatorKind, it.Selector), true
	case domain.KindInput:
		return fmt.Sprintf("\tAnd I type %q into field with %s %q", it.Text, locatorKind, it.Selector), true
	case domain.KindKeypressEnter:
		return fmt.Sprintf("\tAnd I press the %q key on element with %s %q", "Enter", locatorKind, it.Selector), true
	case domain.KindBack:
		return "\tAnd I go back", true
	case domain.KindForward:
		return "\tAnd I go forward", true
	case domain.KindScroll:
		if it.Direction > 0 {
			return "\tAnd I scroll down", true
		}
		return "\tAnd I scroll up", true
	case domain.KindViewportChange:
		return fmt.Sprintf("\tAnd I set the viewport to %dx%d", it.Width, it.Height), true
	default:
		return "", false
	}
}
