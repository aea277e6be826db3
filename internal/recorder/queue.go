// Package recorder implements the session recording pipeline: lifecycle
// management, event normalization, the interaction queue and the serializer
// that drains it into the output document.
package recorder

import (
	"sync"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

// Queue is an unbounded FIFO carrying canonical interactions from multiple
// producers to the single serializer. Enqueue never blocks; production rate
// is human interaction speed, always far below the drain rate, so the queue
// is allowed to grow without backpressure.
type Queue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []domain.Interaction
}

// NewQueue creates an empty interaction queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an interaction. Arrival order at the queue is
// serialization order.
func (q *Queue) Enqueue(it domain.Interaction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, it)
	q.cond.Signal()
}

// Dequeue removes the oldest interaction, waiting up to the given duration
// for one to arrive. The second return is false on timeout, so the consumer
// can observe session stop between items.
func (q *Queue) Dequeue(wait time.Duration) (domain.Interaction, bool) {
	deadline := time.Now().Add(wait)

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return domain.Interaction{}, false
		}
		timer := time.AfterFunc(remaining, q.cond.Broadcast)
		q.cond.Wait()
		timer.Stop()
	}

	it := q.items[0]
	q.items = q.items[1:]
	return it, true
}

// Len returns the number of queued interactions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
