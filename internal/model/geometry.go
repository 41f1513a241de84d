package model

import "math"

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point2D) DistanceTo(q Point2D) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// GeometryKind identifies the shape carried by a drawing entity.
type GeometryKind int

const (
	GeometryOther    GeometryKind = iota // Anything that is not measured (text, arcs, circles, ...)
	GeometrySegment                      // Two-point line
	GeometryPolyline                     // Ordered point sequence, optionally closed
)

func (k GeometryKind) String() string {
	switch k {
	case GeometrySegment:
		return "Segment"
	case GeometryPolyline:
		return "Polyline"
	default:
		return "Other"
	}
}

// Geometry is the measurable payload of a drawing entity.
type Geometry struct {
	Kind   GeometryKind `json:"kind"`
	Points []Point2D    `json:"points"`
	Closed bool         `json:"closed"` // Polyline only: last point connects back to the first
}

// Segment builds a two-point geometry.
func Segment(start, end Point2D) Geometry {
	return Geometry{Kind: GeometrySegment, Points: []Point2D{start, end}}
}

// Polyline builds a point-sequence geometry.
func Polyline(closed bool, points ...Point2D) Geometry {
	return Geometry{Kind: GeometryPolyline, Points: points, Closed: closed}
}

// Measurable reports whether Length can return a non-zero value for this kind.
func (g Geometry) Measurable() bool {
	return g.Kind == GeometrySegment || g.Kind == GeometryPolyline
}

// Length returns the physical length of the geometry. Degenerate or
// unsupported geometry measures zero.
func (g Geometry) Length() float64 {
	switch g.Kind {
	case GeometrySegment:
		if len(g.Points) < 2 {
			return 0
		}
		return g.Points[0].DistanceTo(g.Points[1])

	case GeometryPolyline:
		n := len(g.Points)
		if n < 2 {
			return 0
		}
		var length float64
		for i := 0; i < n-1; i++ {
			length += g.Points[i].DistanceTo(g.Points[i+1])
		}
		if g.Closed {
			length += g.Points[n-1].DistanceTo(g.Points[0])
		}
		return length

	default:
		return 0
	}
}

// Entity is one item read from a drawing: an optional layer name plus geometry.
type Entity struct {
	Layer    string   `json:"layer"`
	HasLayer bool     `json:"has_layer"`
	Geometry Geometry `json:"geometry"`
}
