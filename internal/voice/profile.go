// Package voice implements the command interpreter for recognized
// utterances: a two-state typing-mode machine plus per-language control
// vocabularies.
package voice

import (
	"log/slog"
	"slices"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// Profile is the control-word vocabulary for one recognition language.
type Profile struct {
	Language  string
	Trigger   string
	ExitWords []string
	Click     string
	Back      string
	Forward   string
	Go        string

	// Directions maps direction synonyms to the scroll sign convention
	// (up negative, down positive).
	Directions map[string]int
}

// profiles holds the built-in vocabularies. Unknown language codes fall
// back to en-us.
var profiles = map[string]Profile{
	"en-us": {
		Language:  "en-us",
		Trigger:   "type",
		ExitWords: []string{"stop", "enter"},
		Click:     "click",
		Back:      "back",
		Forward:   "forward",
		Go:        "go",
		Directions: map[string]int{
			"up":   domain.ScrollUp,
			"down": domain.ScrollDown,
		},
	},
	"es": {
		Language:  "es",
		Trigger:   "escribe",
		ExitWords: []string{"para", "listo"},
		Click:     "clic",
		Back:      "atrás",
		Forward:   "adelante",
		Go:        "ve",
		Directions: map[string]int{
			"arriba": domain.ScrollUp,
			"abajo":  domain.ScrollDown,
		},
	},
}

// DefaultLanguage is the fallback recognition language.
const DefaultLanguage = "en-us"

// ProfileFor returns the vocabulary for a language code. Unrecognized codes
// fall back to the default profile deterministically, never a partial mix.
func ProfileFor(language string) Profile {
	if p, ok := profiles[language]; ok {
		return p
	}
	slog.Warn("No vocabulary for language, falling back", "language", language, "fallback", DefaultLanguage)
	return profiles[DefaultLanguage]
}

// controlWords returns every token the profile treats as a command word.
func (p Profile) controlWords() []string {
	words := []string{p.Trigger, p.Click, p.Back, p.Forward, p.Go}
	words = append(words, p.ExitWords...)
	return words
}

// isControlWord reports whether the token is part of the control vocabulary.
func (p Profile) isControlWord(word string) bool {
	return slices.Contains(p.controlWords(), word)
}

// isExitWord reports whether the token leaves typing mode.
func (p Profile) isExitWord(word string) bool {
	return slices.Contains(p.ExitWords, word)
}

// directionOf extracts a scroll direction from the utterance tokens.
func (p Profile) directionOf(words []string) (int, bool) {
	for _, w := range words {
		if dir, ok := p.Directions[w]; ok {
			return dir, true
		}
	}
	return 0, false
}
