package reveal

import "time"

// DefaultFPS is the frame rate used by TimerFrames when none is given.
const DefaultFPS = 60

// TimerFrames is a FrameSource backed by wall-clock one-shot timers. It
// approximates a display refresh for headless use; interactive programs
// usually adapt their own frame mechanism instead.
type TimerFrames struct {
	interval time.Duration
}

// NewTimerFrames returns a frame source firing at most fps times per
// second. Non-positive fps selects DefaultFPS.
func NewTimerFrames(fps int) *TimerFrames {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TimerFrames{interval: time.Second / time.Duration(fps)}
}

// Request schedules fn to run once after the frame interval. The callback
// runs on a timer goroutine with the fire time as its timestamp.
func (t *TimerFrames) Request(fn func(now time.Time)) (cancel func()) {
	timer := time.AfterFunc(t.interval, func() {
		fn(time.Now())
	})
	return func() { timer.Stop() }
}
