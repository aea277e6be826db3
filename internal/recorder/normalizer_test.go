package recorder

import (
	"testing"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		e    domain.RawEvent
		want domain.Interaction
		ok   bool
	}{
		{
			name: "click with xpath",
			e:    domain.RawEvent{Type: domain.RawClick, XPath: "/html/body/a[1]"},
			want: domain.Interaction{Kind: domain.KindClick, Selector: "/html/body/a[1]"},
			ok:   true,
		},
		{
			name: "click prefers href over xpath",
			e:    domain.RawEvent{Type: domain.RawClick, Href: "http://x/next", XPath: "/html/body/a[1]"},
			want: domain.Interaction{Kind: domain.KindClick, Selector: "http://x/next"},
			ok:   true,
		},
		{
			name: "click with no selector is dropped",
			e:    domain.RawEvent{Type: domain.RawClick},
			ok:   false,
		},
		{
			name: "input takes value",
			e:    domain.RawEvent{Type: domain.RawInput, XPath: "/html/body/input", Value: "hello"},
			want: domain.Interaction{Kind: domain.KindInput, Selector: "/html/body/input", Text: "hello"},
			ok:   true,
		},
		{
			name: "input without selector is kept for the active element",
			e:    domain.RawEvent{Type: domain.RawInput, Text: "hello world"},
			want: domain.Interaction{Kind: domain.KindInput, Text: "hello world"},
			ok:   true,
		},
		{
			name: "input with no text is dropped",
			e:    domain.RawEvent{Type: domain.RawInput, XPath: "/html/body/input"},
			ok:   false,
		},
		{
			name: "enter keypress",
			e:    domain.RawEvent{Type: domain.RawKeypress, Key: "Enter", XPath: "/html/body/input"},
			want: domain.Interaction{Kind: domain.KindKeypressEnter, Selector: "/html/body/input"},
			ok:   true,
		},
		{
			name: "non-enter keypress is dropped",
			e:    domain.RawEvent{Type: domain.RawKeypress, Key: "Escape", XPath: "/html/body/input"},
			ok:   false,
		},
		{
			name: "voice enter event",
			e:    domain.RawEvent{Type: domain.RawEnter},
			want: domain.Interaction{Kind: domain.KindKeypressEnter},
			ok:   true,
		},
		{
			name: "back",
			e:    domain.RawEvent{Type: domain.RawBack},
			want: domain.Interaction{Kind: domain.KindBack},
			ok:   true,
		},
		{
			name: "forward",
			e:    domain.RawEvent{Type: domain.RawForward},
			want: domain.Interaction{Kind: domain.KindForward},
			ok:   true,
		},
		{
			name: "scroll down",
			e:    domain.RawEvent{Type: domain.RawGo, Direction: domain.ScrollDown, Units: 10},
			want: domain.Interaction{Kind: domain.KindScroll, Direction: domain.ScrollDown, Units: 10},
			ok:   true,
		},
		{
			name: "scroll without direction is dropped",
			e:    domain.RawEvent{Type: domain.RawGo, Units: 10},
			ok:   false,
		},
		{
			name: "viewport change",
			e:    domain.RawEvent{Type: domain.RawViewportChange, Viewport: &domain.Viewport{Width: 1280, Height: 720}},
			want: domain.Interaction{Kind: domain.KindViewportChange, Width: 1280, Height: 720},
			ok:   true,
		},
		{
			name: "viewport change without dimensions is dropped",
			e:    domain.RawEvent{Type: domain.RawViewportChange},
			ok:   false,
		},
		{
			name: "initial state never normalizes",
			e:    domain.RawEvent{Type: domain.RawInitialState},
			ok:   false,
		},
		{
			name: "unknown kind is dropped",
			e:    domain.RawEvent{Type: "hover"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewNormalizer().Normalize(&tt.e)
			if ok != tt.ok {
				t.Fatalf("Normalize ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			got.Timestamp = tt.want.Timestamp
			if got != tt.want {
				t.Errorf("Normalize = %+v, want %+v", got, tt.want)
			}
		})
	}
}
