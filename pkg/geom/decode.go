package geom

import "math"

// Structural predicates for values of unknown provenance, such as shapes
// decoded from a model's JSON response with encoding/json into any. They
// check shape only; use them before converting with the Decode helpers.

// IsPoint reports whether v looks like a point: a map with finite numeric
// "x" and "y" fields.
func IsPoint(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, okX := finiteNumber(m["x"])
	_, okY := finiteNumber(m["y"])
	return okX && okY
}

// IsPolygon reports whether v is a non-empty sequence where every element
// satisfies IsPoint.
func IsPolygon(v any) bool {
	s, ok := v.([]any)
	if !ok || len(s) == 0 {
		return false
	}
	for _, e := range s {
		if !IsPoint(e) {
			return false
		}
	}
	return true
}

// IsBoundingBox reports whether v looks like a bounding box: a map with
// finite numeric "x", "y", "width", and "height" fields.
func IsBoundingBox(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"x", "y", "width", "height"} {
		if _, ok := finiteNumber(m[key]); !ok {
			return false
		}
	}
	return true
}

// DecodePoint converts a value that satisfies IsPoint into a Point.
// The second result is false when the shape check fails.
func DecodePoint(v any) (Point, bool) {
	if !IsPoint(v) {
		return Point{}, false
	}
	m := v.(map[string]any)
	x, _ := finiteNumber(m["x"])
	y, _ := finiteNumber(m["y"])
	return Point{X: x, Y: y}, true
}

// DecodePolygon converts a value that satisfies IsPolygon into a Polygon.
func DecodePolygon(v any) (Polygon, bool) {
	if !IsPolygon(v) {
		return nil, false
	}
	s := v.([]any)
	poly := make(Polygon, len(s))
	for i, e := range s {
		poly[i], _ = DecodePoint(e)
	}
	return poly, true
}

// DecodeBoundingBox converts a value that satisfies IsBoundingBox into a
// BoundingBox.
func DecodeBoundingBox(v any) (BoundingBox, bool) {
	if !IsBoundingBox(v) {
		return BoundingBox{}, false
	}
	m := v.(map[string]any)
	x, _ := finiteNumber(m["x"])
	y, _ := finiteNumber(m["y"])
	w, _ := finiteNumber(m["width"])
	h, _ := finiteNumber(m["height"])
	return BoundingBox{X: x, Y: y, Width: w, Height: h}, true
}

// finiteNumber extracts a finite float64 from a decoded JSON value.
// encoding/json decodes all JSON numbers as float64.
func finiteNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
