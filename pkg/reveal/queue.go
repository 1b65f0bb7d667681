// Package reveal paces the display of incrementally arriving text.
//
// Model responses stream in bursty chunks; showing each chunk the instant it
// arrives produces jumpy output. A Queue buffers arriving text and, driven
// once per frame by a Scheduler, releases a bounded number of characters to
// a sink no more often than a configured interval, smoothing the burstiness
// into a steady reveal.
//
// A Queue and a Scheduler together serve one streaming session. Neither is
// safe for concurrent use from multiple goroutines without external
// coordination; the Scheduler serializes its own frame callbacks, and
// Enqueue is expected to be called from the same goroutine that owns the
// session (in a bubbletea program, the update loop).
package reveal

import (
	"time"

	"github.com/streamlens/streamlens/pkg/errors"
)

// Default pacing applied by Config.setDefaults.
const (
	DefaultCharsPerUpdate = 1
	DefaultUpdateInterval = 10 * time.Millisecond
)

// Config controls the pacing of a Queue.
type Config struct {
	// CharsPerUpdate is the maximum number of characters released per
	// eligible tick. Zero selects DefaultCharsPerUpdate; negative values
	// are a configuration error.
	CharsPerUpdate int

	// UpdateInterval is the minimum time between releases. Zero is valid
	// (release every tick); negative values are a configuration error.
	// Leave unset together with CharsPerUpdate to get the defaults.
	UpdateInterval time.Duration

	// Sink receives each released slice of text. Required.
	Sink func(text string)
}

func (c *Config) setDefaults() {
	if c.CharsPerUpdate == 0 {
		c.CharsPerUpdate = DefaultCharsPerUpdate
	}
}

func (c *Config) validate() error {
	if c.CharsPerUpdate <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"charsPerUpdate must be positive, got %d", c.CharsPerUpdate)
	}
	if c.UpdateInterval < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"updateInterval must not be negative, got %s", c.UpdateInterval)
	}
	if c.Sink == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "sink is required")
	}
	return nil
}

// Queue buffers pending text and releases it in paced slices.
//
// The zero time is the "not yet started" sentinel for lastFlush: both a
// fresh Queue and a Reset one prime their clock on the first tick instead
// of flushing immediately.
type Queue struct {
	cfg       Config
	buf       []rune
	lastFlush time.Time
}

// NewQueue validates cfg and returns a Queue in its idle state.
// Construction fails on a non-positive CharsPerUpdate (after defaulting),
// a negative UpdateInterval, or a missing Sink.
func NewQueue(cfg Config) (*Queue, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Queue{cfg: cfg}, nil
}

// Enqueue appends text to the buffer tail. It never triggers a flush by
// itself; released text only leaves through Tick.
func (q *Queue) Enqueue(text string) {
	if text == "" {
		return
	}
	q.buf = append(q.buf, []rune(text)...)
}

// Tick advances the queue using the current frame timestamp and reports
// whether further ticks are needed.
//
//   - Empty buffer: returns false.
//   - First tick after construction or Reset: primes the clock to now,
//     flushes nothing, returns true.
//   - Interval not yet elapsed: returns true without flushing.
//   - Otherwise: releases up to CharsPerUpdate characters to the sink,
//     restarts the interval at now, and returns whether text remains.
//
// Characters are whole runes; multi-byte text is never split mid-character.
func (q *Queue) Tick(now time.Time) bool {
	if len(q.buf) == 0 {
		return false
	}

	if q.lastFlush.IsZero() {
		q.lastFlush = now
		return true
	}

	if now.Sub(q.lastFlush) < q.cfg.UpdateInterval {
		return true
	}

	n := q.cfg.CharsPerUpdate
	if n > len(q.buf) {
		n = len(q.buf)
	}
	out := string(q.buf[:n])
	q.buf = q.buf[n:]
	q.lastFlush = now

	q.cfg.Sink(out)

	return len(q.buf) > 0
}

// Reset returns the queue to its idle state: the buffer is cleared and the
// flush clock is unset, so the next Tick primes rather than flushes.
func (q *Queue) Reset() {
	q.buf = nil
	q.lastFlush = time.Time{}
}

// Len returns the number of characters still pending.
func (q *Queue) Len() int {
	return len(q.buf)
}

// Pending returns the not-yet-released text.
func (q *Queue) Pending() string {
	return string(q.buf)
}
