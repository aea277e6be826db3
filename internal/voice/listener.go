package voice

import (
	"context"
	"log/slog"
)

// Source yields recognized utterance strings from the speech-to-text
// engine. The engine itself is outside this module; an adapter feeds its
// results into the channel.
type Source interface {
	Utterances() <-chan string
}

// ChanSource adapts a plain channel of utterances to the Source interface.
type ChanSource <-chan string

// Utterances returns the underlying channel.
func (c ChanSource) Utterances() <-chan string {
	return c
}

// Listener is the voice worker: it drains the utterance source into the
// interpreter until the session stops.
type Listener struct {
	src    Source
	interp *Interpreter
}

// NewListener creates a listener for the given source and interpreter.
func NewListener(src Source, interp *Interpreter) *Listener {
	return &Listener{src: src, interp: interp}
}

// Run consumes utterances until the context is cancelled or the source
// closes. Cancellation is cooperative: an utterance in flight is processed
// before the loop observes it.
func (l *Listener) Run(ctx context.Context) {
	slog.Info("Voice listener started", "language", l.interp.profile.Language)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Voice listener stopped", "reason", ctx.Err())
			return
		case utterance, ok := <-l.src.Utterances():
			if !ok {
				slog.Info("Utterance source closed, voice listener exiting")
				return
			}
			if utterance == "" {
				continue
			}
			slog.Debug("Voice command heard", "utterance", utterance)
			l.interp.HandleUtterance(utterance)
		}
	}
}
