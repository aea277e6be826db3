package recorder

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/script"
)

// dequeueWait bounds how long the serializer blocks on the queue before
// re-checking for session stop.
const dequeueWait = 250 * time.Millisecond

// Serializer drains the interaction queue in strict arrival order and
// appends one step line per interaction to the output document.
type Serializer struct {
	queue *Queue
	doc   *script.Document
	steps atomic.Int64
	done  chan struct{}
}

// NewSerializer creates a serializer for the given queue and document.
func NewSerializer(queue *Queue, doc *script.Document) *Serializer {
	return &Serializer{queue: queue, doc: doc, done: make(chan struct{})}
}

// Steps returns the number of step lines written so far.
func (s *Serializer) Steps() int64 {
	return s.steps.Load()
}

// Wait blocks until the drain loop has exited.
func (s *Serializer) Wait() {
	<-s.done
}

// Run drains the queue until the context is cancelled and the queue is
// empty. Interactions enqueued before stop are flushed, not truncated. A
// failed write loses that one line and the loop continues.
func (s *Serializer) Run(ctx context.Context) {
	defer close(s.done)

	for {
		it, ok := s.queue.Dequeue(dequeueWait)
		if !ok {
			select {
			case <-ctx.Done():
				slog.Info("Serializer drained, exiting", "steps", s.steps.Load())
				return
			default:
				continue
			}
		}

		line, ok := script.RenderStep(it)
		if !ok {
			slog.Warn("Interaction has no step representation", "kind", it.Kind)
			continue
		}

		if err := s.doc.AppendStep(line); err != nil {
			slog.Error("Failed to append step, line lost", "error", err, "kind", it.Kind)
			continue
		}
		s.steps.Add(1)
	}
}
