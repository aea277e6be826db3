// Package gaze follows the user's eye-gaze with the cursor and answers
// "where is the user looking right now". Raw gaze acquisition is outside
// this module; the tracker only consumes (x, y) samples.
package gaze

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	pollInterval    = 10 * time.Millisecond
	smoothingWindow = 5
	moveThreshold   = 30.0
	smoothing       = 0.5
)

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

// Source yields raw gaze samples. The second return is false when no fresh
// sample is available this tick.
type Source interface {
	Sample() (Point, bool)
}

// Mover moves the cursor to follow the gaze.
type Mover interface {
	MoveCursor(x, y int)
}

// NullSource never yields a sample. It is the default when no eye tracker
// is attached.
type NullSource struct{}

// Sample reports no fresh sample.
func (NullSource) Sample() (Point, bool) {
	return Point{}, false
}

// Tracker smooths gaze samples over a small window and moves the cursor
// when the gaze travels past a jitter threshold. It is the pipeline's
// answer to "current gaze position".
type Tracker struct {
	src   Source
	mover Mover

	mu       sync.RWMutex
	current  Point
	hasMoved bool
	window   []Point
}

// NewTracker creates a tracker over the given sample source and cursor
// mover.
func NewTracker(src Source, mover Mover) *Tracker {
	return &Tracker{src: src, mover: mover}
}

// Position returns the last smoothed gaze position.
func (t *Tracker) Position() (x, y int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current.X, t.current.Y
}

// Run polls the source until the context is cancelled. Samples are averaged
// over the smoothing window; the cursor only moves once the average drifts
// past the jitter threshold, and then only halfway toward it per tick.
func (t *Tracker) Run(ctx context.Context) {
	slog.Info("Gaze tracker started")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Gaze tracker stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			p, ok := t.src.Sample()
			if !ok {
				continue
			}
			t.observe(p)
		}
	}
}

func (t *Tracker) observe(p Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window = append(t.window, p)
	if len(t.window) < smoothingWindow {
		return
	}
	if len(t.window) > smoothingWindow {
		t.window = t.window[len(t.window)-smoothingWindow:]
	}

	var sumX, sumY int
	for _, w := range t.window {
		sumX += w.X
		sumY += w.Y
	}
	avg := Point{X: sumX / len(t.window), Y: sumY / len(t.window)}

	if !t.hasMoved {
		t.current = avg
		t.hasMoved = true
		return
	}

	if distance(t.current, avg) <= moveThreshold {
		return
	}

	target := Point{
		X: t.current.X + int(float64(avg.X-t.current.X)*smoothing),
		Y: t.current.Y + int(float64(avg.Y-t.current.Y)*smoothing),
	}
	t.mover.MoveCursor(target.X, target.Y)
	t.current = target
}

func distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
