// Package overlay keeps vision-model overlays aligned with a rendered image.
//
// A Session pairs the original (model-reported) image dimensions with the
// measured size of the image as currently rendered, derives the per-axis
// scale ratio between them, and transforms model coordinates into display
// coordinates on demand. When the rendered size changes (responsive layout,
// window resize), a debounced re-measurement keeps the ratio current.
//
// Unlike the pure engine in package geom, Session methods validate their
// inputs defensively: a transform called before the ratio is known, or with
// a malformed shape, logs a warning and echoes the input back unchanged
// rather than failing the caller.
//
// The rendered element and the resize notifications are injected as small
// capabilities (Element, ResizeObserver), so a Session works the same under
// a terminal UI, a GUI toolkit, or a test fake.
package overlay

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/streamlens/streamlens/pkg/errors"
	"github.com/streamlens/streamlens/pkg/geom"
)

// DefaultDebounceDelay is the resize quiet period used when Config leaves
// DebounceDelay unset.
const DefaultDebounceDelay = 100 * time.Millisecond

// Element is the rendered image being measured. Bounds returns the current
// rendered size; ok is false when the element cannot be measured yet.
// Loaded reports whether the element has finished loading its content.
type Element interface {
	Bounds() (d geom.Dimensions, ok bool)
	Loaded() bool
}

// ResizeObserver notifies when the observed element's size may have
// changed. Observe registers fn and returns a stop function that
// unregisters it.
type ResizeObserver interface {
	Observe(fn func()) (stop func())
}

// Config controls a Session.
type Config struct {
	// OriginalWidth and OriginalHeight are the dimensions of the image the
	// vision model analyzed. Both must be positive and finite.
	OriginalWidth  float64
	OriginalHeight float64

	// DisableResizeWatch makes Watch a no-op. By default a Session
	// re-measures on resize notifications.
	DisableResizeWatch bool

	// DebounceDelay is the quiet period applied to resize notifications
	// before re-measuring. Zero selects DefaultDebounceDelay; negative
	// values are a configuration error.
	DebounceDelay time.Duration

	// OnScaleChange, if set, is invoked with each newly derived scale
	// ratio. It never fires when the ratio becomes unavailable.
	OnScaleChange func(geom.ScaleRatio)

	// Logger receives validation warnings. Nil selects log.Default().
	Logger *log.Logger
}

// Session holds the mutable transform state for one rendered image.
// It is safe for concurrent use; resize debounce timers fire on timer
// goroutines.
type Session struct {
	id     string
	cfg    Config
	logger *log.Logger

	mu       sync.Mutex
	original geom.Dimensions
	element  Element
	display  *geom.Dimensions // nil until first successful measurement
}

// New creates a Session for el using cfg and performs an initial
// measurement. el may be nil; the session then stays not ready until
// SetElement provides one.
func New(el Element, cfg Config) (*Session, error) {
	original := geom.Dimensions{Width: cfg.OriginalWidth, Height: cfg.OriginalHeight}
	if !geom.IsValidDimensions(&original) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"original dimensions must be positive and finite, got %gx%g",
			cfg.OriginalWidth, cfg.OriginalHeight)
	}
	if cfg.DebounceDelay < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"debounce delay must not be negative, got %s", cfg.DebounceDelay)
	}
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		logger:   logger,
		original: original,
		element:  el,
	}
	s.Recalculate()
	return s, nil
}

// ID returns the session's unique identifier, as used in log output.
func (s *Session) ID() string { return s.id }

// OriginalDimensions returns the model-reported image size.
func (s *Session) OriginalDimensions() geom.Dimensions {
	return s.original
}

// DisplayDimensions returns the last successfully measured rendered size.
// ok is false before the first successful measurement and after the
// element is removed.
func (s *Session) DisplayDimensions() (d geom.Dimensions, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.display == nil {
		return geom.Dimensions{}, false
	}
	return *s.display, true
}

// ScaleRatio returns the derived original-to-display ratio. ok is false
// until both dimension pairs are known and valid.
func (s *Session) ScaleRatio() (r geom.ScaleRatio, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratioLocked()
}

func (s *Session) ratioLocked() (geom.ScaleRatio, bool) {
	if !geom.IsValidDimensions(s.display) {
		return geom.ScaleRatio{}, false
	}
	return geom.CalculateScaleRatio(s.original, *s.display), true
}

// Ready reports whether transforms will produce display-space output: the
// element is loaded, a display size has been measured, and the ratio is
// derivable.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.element == nil || !s.element.Loaded() {
		return false
	}
	if s.display == nil {
		return false
	}
	_, ok := s.ratioLocked()
	return ok
}

// SetElement swaps the measured element and re-measures. Passing nil
// detaches the session; the display dimensions are cleared.
func (s *Session) SetElement(el Element) {
	s.mu.Lock()
	s.element = el
	s.mu.Unlock()
	s.Recalculate()
}

// Recalculate re-measures the element.
//
// A valid measurement replaces the stored display dimensions. A failed or
// invalid measurement keeps the prior value. A missing element clears the
// display dimensions entirely.
//
// When the derived ratio changes to a new available value, OnScaleChange
// fires; it never fires on the transition to unavailable.
func (s *Session) Recalculate() {
	s.mu.Lock()
	prev, hadPrev := s.ratioLocked()

	if s.element == nil {
		s.display = nil
	} else if d, ok := s.element.Bounds(); ok && geom.IsValidDimensions(&d) {
		s.display = &d
	}

	ratio, ok := s.ratioLocked()
	changed := ok && (!hadPrev || ratio != prev)
	notify := s.cfg.OnScaleChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(ratio)
	}
}

// TransformPoint maps p from original to display space. If the ratio is
// unavailable or p is not a finite point, a warning is logged and p is
// returned unchanged.
func (s *Session) TransformPoint(p geom.Point) geom.Point {
	ratio, ok := s.ScaleRatio()
	if !ok {
		s.warnNotReady("point")
		return p
	}
	if !geom.IsValidPoint(p) {
		s.logger.Warn("invalid point, returning input unchanged",
			"session", s.id, "x", p.X, "y", p.Y)
		return p
	}
	return geom.TransformPoint(p, ratio)
}

// TransformPolygon maps every vertex from original to display space. If
// the ratio is unavailable or the polygon is empty, a warning is logged
// and the input is returned unchanged.
func (s *Session) TransformPolygon(poly geom.Polygon) geom.Polygon {
	ratio, ok := s.ScaleRatio()
	if !ok {
		s.warnNotReady("polygon")
		return poly
	}
	if len(poly) == 0 {
		s.logger.Warn("empty polygon, returning input unchanged", "session", s.id)
		return poly
	}
	return geom.TransformPolygon(poly, ratio)
}

// TransformBoundingBox maps b from original to display space. If the ratio
// is unavailable, a warning is logged and b is returned unchanged. The box
// itself is not shape-checked before transforming.
func (s *Session) TransformBoundingBox(b geom.BoundingBox) geom.BoundingBox {
	ratio, ok := s.ScaleRatio()
	if !ok {
		s.warnNotReady("bounding box")
		return b
	}
	return geom.TransformBoundingBox(b, ratio)
}

func (s *Session) warnNotReady(shape string) {
	s.logger.Warn("scale ratio unavailable, returning input unchanged",
		"session", s.id, "shape", shape)
}

// Watch subscribes to resize notifications and re-measures after each
// burst settles. The returned stop function unsubscribes and drops any
// pending re-measurement. When the session was configured with
// DisableResizeWatch, Watch is a no-op.
func (s *Session) Watch(obs ResizeObserver) (stop func()) {
	if s.cfg.DisableResizeWatch {
		return func() {}
	}
	d := NewDebouncer(s.cfg.DebounceDelay)
	stopObs := obs.Observe(func() {
		d.Trigger(s.Recalculate)
	})
	return func() {
		stopObs()
		d.Stop()
	}
}
