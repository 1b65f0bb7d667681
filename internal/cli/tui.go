package cli

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamlens/streamlens/pkg/reveal"
)

// frameInterval approximates a display refresh for the typewriter view.
const frameInterval = time.Second / 60

// =============================================================================
// teaFrames - bubbletea-backed FrameSource
// =============================================================================

// teaFrames adapts bubbletea's tick messages to the reveal.FrameSource
// capability: Request records the one-shot callback, and the model fires it
// when the next frameMsg arrives in Update. Everything runs on the program's
// update loop, so ticks never overlap.
type teaFrames struct {
	mu      sync.Mutex
	pending func(now time.Time)
}

func (f *teaFrames) Request(fn func(now time.Time)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.pending = nil
	}
}

// fire delivers the outstanding frame callback, if any.
func (f *teaFrames) fire(now time.Time) {
	f.mu.Lock()
	fn := f.pending
	f.pending = nil
	f.mu.Unlock()
	if fn != nil {
		fn(now)
	}
}

// =============================================================================
// TypewriterModel - paced reveal of streamed text
// =============================================================================

type frameMsg time.Time
type chunkMsg string
type sourceDoneMsg struct{}

// TypewriterModel is the bubbletea model for the reveal command. Chunks
// "arrive" on a timer (standing in for a streaming transport), are fed into
// a reveal.Queue, and the queue's paced releases accumulate into the view.
type TypewriterModel struct {
	queue  *reveal.Queue
	sched  *reveal.Scheduler
	frames *teaFrames

	chunks     []string // simulated stream, not yet arrived
	next       int
	chunkEvery time.Duration

	shown      *strings.Builder
	sourceDone bool
	cancelled  bool
}

// NewTypewriterModel builds a typewriter over text. The text is split into
// chunks of chunkSize runes that arrive every chunkEvery; pacing of the
// reveal itself comes from cfg. cfg.Sink is set by the model.
func NewTypewriterModel(text string, cfg reveal.Config, chunkSize int, chunkEvery time.Duration) (TypewriterModel, error) {
	shown := &strings.Builder{}
	cfg.Sink = func(s string) { shown.WriteString(s) }

	queue, err := reveal.NewQueue(cfg)
	if err != nil {
		return TypewriterModel{}, err
	}

	frames := &teaFrames{}
	return TypewriterModel{
		queue:      queue,
		sched:      reveal.NewScheduler(frames),
		frames:     frames,
		chunks:     chunkRunes(text, chunkSize),
		chunkEvery: chunkEvery,
		shown:      shown,
	}, nil
}

// Revealed returns the text released so far.
func (m TypewriterModel) Revealed() string { return m.shown.String() }

// Cancelled reports whether the user quit before the stream finished.
func (m TypewriterModel) Cancelled() bool { return m.cancelled }

func (m TypewriterModel) Init() tea.Cmd {
	return tea.Batch(m.frameTick(), m.nextChunk())
}

func (m TypewriterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sched.Cancel()
			m.cancelled = true
			return m, tea.Quit
		}

	case chunkMsg:
		m.next++
		m.queue.Enqueue(string(msg))
		m.sched.Schedule(m.queue.Tick)
		return m, m.nextChunk()

	case sourceDoneMsg:
		m.sourceDone = true
		return m, nil

	case frameMsg:
		m.frames.fire(time.Time(msg))
		if m.sourceDone && m.queue.Len() == 0 && !m.sched.Running() {
			return m, tea.Quit
		}
		return m, m.frameTick()
	}
	return m, nil
}

func (m TypewriterModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("StreamLens"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleValue.Render(m.shown.String()))

	if !m.sourceDone || m.queue.Len() > 0 {
		b.WriteString(StyleNumber.Render("▌"))
		b.WriteString("\n\n")
		b.WriteString(StyleDim.Render("streaming…"))
	}
	b.WriteString("\n")
	return b.String()
}

// frameTick emits the next frame timestamp.
func (m TypewriterModel) frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// nextChunk delivers the next simulated stream chunk after the arrival
// cadence, or reports the source exhausted.
func (m TypewriterModel) nextChunk() tea.Cmd {
	if m.next >= len(m.chunks) {
		return func() tea.Msg { return sourceDoneMsg{} }
	}
	chunk := m.chunks[m.next]
	return tea.Tick(m.chunkEvery, func(time.Time) tea.Msg {
		return chunkMsg(chunk)
	})
}

// chunkRunes splits text into slices of at most n runes.
func chunkRunes(text string, n int) []string {
	if n <= 0 {
		n = 1
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		if len(runes) < n {
			chunks = append(chunks, string(runes))
			break
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
