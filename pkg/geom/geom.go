// Package geom provides pure coordinate transformations between a vision
// model's original image space and the pixel space of the image as rendered.
//
// A vision model reports points, polygons, and bounding boxes in the pixel
// grid of the image it analyzed. The rendered image is usually a different
// size (responsive layout, container constraints), so every coordinate must
// be rescaled before it can be drawn as an overlay. The rescaling is a
// per-axis multiplication by a ScaleRatio derived from the two sizes.
//
// # Safety model
//
// Functions in this package are pure and perform no validation. Dividing by
// zero-sized dimensions yields Inf/NaN, which propagates into transformed
// coordinates. Callers that need guarantees should pre-check inputs with
// IsValidDimensions and IsValidPoint, or use the overlay package, which
// wraps this engine with defensive validation and logging.
package geom

import "math"

// Dimensions is a width/height pair in pixels. It describes either an
// original (model-reported) image size or a currently rendered size.
type Dimensions struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// ScaleRatio holds per-axis multipliers converting original-space
// coordinates to display-space coordinates. The axes are independent:
// non-uniform scaling is supported.
type ScaleRatio struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is a 2D coordinate. Whether it lives in original or display space
// is determined by context, not by the type.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered, non-empty sequence of vertices. Order is
// significant (it defines the edges); no closing duplicate is required.
type Polygon []Point

// BoundingBox is an axis-aligned rectangle anchored at its top-left corner.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CalculateScaleRatio derives the per-axis ratio mapping original-space
// coordinates onto displayed-space coordinates.
//
// The original dimensions must be non-zero; there is no internal guard, and
// division by zero propagates Inf/NaN into the result.
func CalculateScaleRatio(original, displayed Dimensions) ScaleRatio {
	return ScaleRatio{
		X: displayed.Width / original.Width,
		Y: displayed.Height / original.Height,
	}
}

// IsValidDimensions reports whether d is non-nil with both fields positive
// and finite.
func IsValidDimensions(d *Dimensions) bool {
	if d == nil {
		return false
	}
	return d.Width > 0 && d.Height > 0 &&
		!math.IsInf(d.Width, 0) && !math.IsInf(d.Height, 0)
}

// IsValidPoint reports whether both coordinates are finite numbers.
func IsValidPoint(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// TransformPoint rescales p by the per-axis ratio. No validation is
// performed; invalid inputs produce invalid outputs.
func TransformPoint(p Point, ratio ScaleRatio) Point {
	return Point{X: p.X * ratio.X, Y: p.Y * ratio.Y}
}

// TransformPolygon rescales every vertex, preserving count and order.
// A nil polygon maps to nil.
func TransformPolygon(poly Polygon, ratio ScaleRatio) Polygon {
	if poly == nil {
		return nil
	}
	out := make(Polygon, len(poly))
	for i, p := range poly {
		out[i] = TransformPoint(p, ratio)
	}
	return out
}

// TransformBoundingBox rescales the box. Position and size share the same
// axis ratio: x and width scale by ratio.X, y and height by ratio.Y.
func TransformBoundingBox(b BoundingBox, ratio ScaleRatio) BoundingBox {
	return BoundingBox{
		X:      b.X * ratio.X,
		Y:      b.Y * ratio.Y,
		Width:  b.Width * ratio.X,
		Height: b.Height * ratio.Y,
	}
}
