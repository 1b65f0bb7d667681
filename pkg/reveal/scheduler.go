package reveal

import (
	"sync"
	"time"
)

// Task is a per-frame update function. It receives the frame timestamp and
// reports whether it wants to keep being invoked.
type Task func(now time.Time) bool

// FrameSource requests a single callback before the next frame. The
// returned cancel function withdraws the request if it has not fired yet.
//
// Implementations decide what a "frame" is: TimerFrames approximates a
// display refresh with wall-clock timers, a TUI program can adapt its own
// tick messages, and tests supply a manual source.
type FrameSource interface {
	Request(fn func(now time.Time)) (cancel func())
}

// Scheduler drives a Task once per frame until the task reports completion
// or the scheduler is cancelled.
//
// At most one frame request is outstanding and one task assigned at any
// time. Scheduling while a request is in flight only swaps the task; the
// pending frame, when it fires, runs the newly assigned task. This lets a
// caller hand over more work without stacking duplicate frame requests.
type Scheduler struct {
	frames FrameSource

	mu     sync.Mutex
	task   Task
	cancel func() // non-nil while a frame request is outstanding
}

// NewScheduler creates a Scheduler that obtains frames from the given
// source.
func NewScheduler(frames FrameSource) *Scheduler {
	return &Scheduler{frames: frames}
}

// Schedule assigns task as the current task and starts the frame loop if
// it is not already running.
func (s *Scheduler) Schedule(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.task = task
	if s.cancel == nil {
		s.cancel = s.frames.Request(s.step)
	}
}

// Cancel withdraws any outstanding frame request and clears the current
// task. After Cancel returns no further task invocations occur. Calling
// Cancel on an idle scheduler is a no-op.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.task = nil
}

// Running reports whether a frame request is currently outstanding.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// step is the frame callback. It runs the current task and requests the
// next frame unless the task stopped, panicked, or was cleared.
func (s *Scheduler) step(now time.Time) {
	s.mu.Lock()
	task := s.task
	if task == nil {
		s.cancel = nil
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	completed := false
	defer func() {
		if completed {
			return
		}
		// The task panicked. Tear down so the scheduler is clean and
		// re-schedulable, then let the panic propagate to the goroutine
		// that delivered the frame.
		s.mu.Lock()
		s.task = nil
		s.cancel = nil
		s.mu.Unlock()
	}()
	again := task(now)
	completed = true

	s.mu.Lock()
	defer s.mu.Unlock()
	if !again || s.task == nil {
		// Done, or Cancel raced with the running task.
		s.task = nil
		s.cancel = nil
		return
	}
	s.cancel = s.frames.Request(s.step)
}
