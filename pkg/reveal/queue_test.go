package reveal

import (
	"testing"
	"time"

	"github.com/streamlens/streamlens/pkg/errors"
)

// collectSink returns a sink writing into out, for asserting releases.
func collectSink(out *[]string) func(string) {
	return func(s string) { *out = append(*out, s) }
}

func TestNewQueue_Defaults(t *testing.T) {
	q, err := NewQueue(Config{Sink: func(string) {}})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	if q.cfg.CharsPerUpdate != DefaultCharsPerUpdate {
		t.Errorf("CharsPerUpdate = %d, want %d", q.cfg.CharsPerUpdate, DefaultCharsPerUpdate)
	}
}

func TestNewQueue_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative chars per update", Config{CharsPerUpdate: -1, Sink: func(string) {}}},
		{"negative interval", Config{UpdateInterval: -time.Millisecond, Sink: func(string) {}}},
		{"missing sink", Config{CharsPerUpdate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQueue(tt.cfg)
			if err == nil {
				t.Fatal("NewQueue() error = nil, want configuration error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestQueue_FirstTickPrimes(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 2, UpdateInterval: 10 * time.Millisecond, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("hello")

	t0 := time.Unix(100, 0)
	if !q.Tick(t0) {
		t.Error("Tick(t0) = false, want true (priming tick)")
	}
	if len(got) != 0 {
		t.Errorf("priming tick released %q, want nothing", got)
	}
}

func TestQueue_TickSequence(t *testing.T) {
	// charsPerUpdate=2, updateInterval=10ms, "abcd":
	// tick(0) primes, tick(+10ms) releases "ab", tick(+20ms) releases "cd".
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 2, UpdateInterval: 10 * time.Millisecond, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("abcd")

	t0 := time.Unix(0, 0)
	if !q.Tick(t0) {
		t.Fatal("Tick(t0) = false, want true")
	}
	if !q.Tick(t0.Add(10 * time.Millisecond)) {
		t.Fatal("Tick(t0+10ms) = false, want true (buffer still has cd)")
	}
	if q.Tick(t0.Add(20 * time.Millisecond)) {
		t.Fatal("Tick(t0+20ms) = true, want false (buffer drained)")
	}

	if len(got) != 2 || got[0] != "ab" || got[1] != "cd" {
		t.Errorf("released %q, want [ab cd]", got)
	}
}

func TestQueue_WaitsForInterval(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 1, UpdateInterval: 10 * time.Millisecond, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("xy")

	t0 := time.Unix(0, 0)
	q.Tick(t0)
	if !q.Tick(t0.Add(5 * time.Millisecond)) {
		t.Error("Tick before interval = false, want true")
	}
	if len(got) != 0 {
		t.Errorf("released %q before interval elapsed, want nothing", got)
	}
}

func TestQueue_EmptyBufferStops(t *testing.T) {
	q, err := NewQueue(Config{Sink: func(string) {}})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	if q.Tick(time.Unix(0, 0)) {
		t.Error("Tick() on empty queue = true, want false")
	}
}

func TestQueue_ShortFinalSlice(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 3, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("ab")

	t0 := time.Unix(0, 0)
	q.Tick(t0)
	if q.Tick(t0.Add(time.Millisecond)) {
		t.Error("final Tick = true, want false")
	}
	if len(got) != 1 || got[0] != "ab" {
		t.Errorf("released %q, want [ab] (shorter than charsPerUpdate)", got)
	}
}

func TestQueue_RuneSafe(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 2, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("héllo")

	t0 := time.Unix(0, 0)
	q.Tick(t0)
	q.Tick(t0.Add(20 * time.Millisecond))

	if len(got) != 1 || got[0] != "hé" {
		t.Errorf("released %q, want [hé] (whole runes, not bytes)", got)
	}
}

func TestQueue_EnqueueWhileStreaming(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 2, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	t0 := time.Unix(0, 0)
	q.Enqueue("ab")
	q.Tick(t0)
	q.Enqueue("cd")

	if !q.Tick(t0.Add(20 * time.Millisecond)) {
		t.Error("Tick = false, want true (cd still pending)")
	}
	if q.Tick(t0.Add(40 * time.Millisecond)) {
		t.Error("Tick = true, want false (drained)")
	}
	if len(got) != 2 || got[0] != "ab" || got[1] != "cd" {
		t.Errorf("released %q, want [ab cd]", got)
	}
}

func TestQueue_Reset(t *testing.T) {
	var got []string
	q, err := NewQueue(Config{CharsPerUpdate: 2, UpdateInterval: 10 * time.Millisecond, Sink: collectSink(&got)})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("abcd")
	t0 := time.Unix(0, 0)
	q.Tick(t0)
	q.Tick(t0.Add(10 * time.Millisecond))

	q.Reset()

	if q.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", q.Len())
	}

	// After Reset the very first tick primes again, even at a large
	// timestamp: construction and Reset share one sentinel.
	got = nil
	q.Enqueue("zz")
	far := time.Unix(1_000_000, 0)
	if !q.Tick(far) {
		t.Error("first Tick after Reset = false, want true")
	}
	if len(got) != 0 {
		t.Errorf("first Tick after Reset released %q, want nothing", got)
	}
}

func TestQueue_Pending(t *testing.T) {
	q, err := NewQueue(Config{CharsPerUpdate: 1, Sink: func(string) {}})
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	q.Enqueue("abc")
	t0 := time.Unix(0, 0)
	q.Tick(t0)
	q.Tick(t0.Add(20 * time.Millisecond))

	if q.Pending() != "bc" {
		t.Errorf("Pending() = %q, want %q", q.Pending(), "bc")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}
