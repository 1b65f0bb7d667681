// Package pkg provides the core libraries for StreamLens.
//
// # Overview
//
// StreamLens supplies two client-side building blocks for AI-assisted
// interfaces: a paced reveal of incrementally arriving model text, and
// coordinate mapping from a vision model's image space into the pixel
// space of the image as actually rendered.
//
//  1. [reveal] - Text reveal queue and the frame scheduler that drives it
//  2. [geom] - Pure coordinate transforms (scale ratios, points, polygons, boxes)
//  3. [overlay] - Stateful transform session with resize observation
//  4. [errors] - Structured errors with machine-readable codes
//  5. [buildinfo] - Build-time version information
//
// # Architecture
//
// The typical flow for streamed text:
//
//	transport chunk
//	       ↓
//	  [reveal] Queue.Enqueue
//	       ↓
//	  [reveal] Scheduler (one Tick per frame)
//	       ↓
//	  paced slices → caller's sink
//
// And for vision overlays:
//
//	model coordinates + rendered element size
//	       ↓
//	  [overlay] Session (cached scale ratio, debounced re-measure)
//	       ↓
//	  [geom] pure transforms
//	       ↓
//	  display coordinates
//
// # Quick Start
//
// Pace a streamed response:
//
//	q, _ := reveal.NewQueue(reveal.Config{
//	    CharsPerUpdate: 2,
//	    UpdateInterval: 10 * time.Millisecond,
//	    Sink:           func(s string) { fmt.Print(s) },
//	})
//	s := reveal.NewScheduler(reveal.NewTimerFrames(60))
//	q.Enqueue(chunk)
//	s.Schedule(q.Tick)
//
// Map a detection box onto the rendered image:
//
//	sess, _ := overlay.New(el, overlay.Config{OriginalWidth: 1920, OriginalHeight: 1080})
//	box := sess.TransformBoundingBox(detection)
//
// # Safety model
//
// [geom] is the unsafe pure core: no validation, Inf/NaN propagate.
// [overlay] is the safe wrapper: it validates defensively, logs a warning,
// and echoes bad input back unchanged. Callers needing guarantees on the
// pure functions pre-check with the geom predicates.
//
// [reveal]: https://pkg.go.dev/github.com/streamlens/streamlens/pkg/reveal
// [geom]: https://pkg.go.dev/github.com/streamlens/streamlens/pkg/geom
// [overlay]: https://pkg.go.dev/github.com/streamlens/streamlens/pkg/overlay
// [errors]: https://pkg.go.dev/github.com/streamlens/streamlens/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/streamlens/streamlens/pkg/buildinfo
package pkg
