package domain

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeEyeVoice, false},
		{"eye-voice", ModeEyeVoice, false},
		{"voice-only", ModeVoiceOnly, false},
		{"eye-only", ModeEyeOnly, false},
		{"manual", ModeManual, false},
		{"telepathy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeProducers(t *testing.T) {
	tests := []struct {
		mode  Mode
		voice bool
		gaze  bool
	}{
		{ModeEyeVoice, true, true},
		{ModeVoiceOnly, true, false},
		{ModeEyeOnly, false, true},
		{ModeManual, false, false},
	}
	for _, tt := range tests {
		if got := tt.mode.UsesVoice(); got != tt.voice {
			t.Errorf("%s.UsesVoice = %v, want %v", tt.mode, got, tt.voice)
		}
		if got := tt.mode.UsesGaze(); got != tt.gaze {
			t.Errorf("%s.UsesGaze = %v, want %v", tt.mode, got, tt.gaze)
		}
	}
}

func TestRawEventLocator(t *testing.T) {
	tests := []struct {
		name string
		e    RawEvent
		want string
	}{
		{"href wins", RawEvent{Href: "http://x/a", ID: "login", XPath: "/a"}, "http://x/a"},
		{"id over xpath", RawEvent{ID: "login", XPath: "/a"}, "login"},
		{"xpath fallback", RawEvent{XPath: "/html/body/a[1]"}, "/html/body/a[1]"},
		{"nothing", RawEvent{}, ""},
	}
	for _, tt := range tests {
		if got := tt.e.Locator(); got != tt.want {
			t.Errorf("%s: Locator = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRawEventInputText(t *testing.T) {
	if got := (&RawEvent{Value: "abc", Text: "def"}).InputText(); got != "abc" {
		t.Errorf("InputText = %q, want value preferred", got)
	}
	if got := (&RawEvent{Text: "def"}).InputText(); got != "def" {
		t.Errorf("InputText = %q, want text fallback", got)
	}
}

func TestIsStructuralLocator(t *testing.T) {
	for locator, want := range map[string]bool{
		"/html/body/a[1]": true,
		"(//div)[2]":      true,
		"login-button":    false,
		"http://x/next":   false,
		"":                false,
	} {
		if got := IsStructuralLocator(locator); got != want {
			t.Errorf("IsStructuralLocator(%q) = %v, want %v", locator, got, want)
		}
	}
}
