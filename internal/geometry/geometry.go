// Package geometry implements pure, stateless operations over points and
// polygons used by the planner: distance, containment, boundary distance,
// and segment intersection.
//
// All functions are deterministic and safe for concurrent use; none retain
// or mutate their arguments. Degenerate polygons (collinear vertices,
// self-intersections) are not validated — callers are responsible for
// supplying simple polygons with at least three vertices.
package geometry

import (
	"encoding/json"
	"math"
)

// Point is a pair of real-valued coordinates on the plane.
type Point struct {
	X, Y float64
}

// MarshalJSON encodes p as a [x, y] array, matching the external scenario
// schema's coordinate tuples.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes p from a [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords [2]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	p.X, p.Y = coords[0], coords[1]
	return nil
}

// Polygon is an ordered list of vertices. Closure (last vertex to first) is
// implicit — the vertex slice does not need to repeat the first point.
type Polygon []Point

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Contains reports whether p lies strictly inside poly. Points on the
// boundary are treated as outside, matching typical geometric-library
// semantics (e.g. shapely's Polygon.contains).
func Contains(poly Polygon, p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := poly[i], poly[j]

		if onSegment(vi, vj, p) {
			return false
		}

		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xIntersect := vi.X + (p.Y-vi.Y)*(vj.X-vi.X)/(vj.Y-vi.Y)
			if p.X < xIntersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onSegment reports whether p lies on the closed segment a-b.
func onSegment(a, b, p Point) bool {
	cross := (p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X)
	if math.Abs(cross) > 1e-9 {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	if dot < 0 {
		return false
	}
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	return dot <= lenSq
}

// PolygonDistance returns the shortest distance from p to the polygon's
// boundary, or 0 if p is inside (or on the boundary of) the polygon.
func PolygonDistance(poly Polygon, p Point) float64 {
	if len(poly) < 2 {
		return math.Inf(1)
	}
	if Contains(poly, p) {
		return 0
	}

	n := len(poly)
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if onSegment(a, b, p) {
			return 0
		}
		d := pointToSegmentDistance(p, a, b)
		if d < min {
			min = d
		}
	}
	return min
}

func pointToSegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return Distance(p, proj)
}

// SegmentIntersects reports whether the segment a-b intersects any edge of
// poly, or lies with an endpoint inside poly.
func SegmentIntersects(poly Polygon, a, b Point) bool {
	n := len(poly)
	if n < 2 {
		return false
	}
	if Contains(poly, a) || Contains(poly, b) {
		return true
	}
	for i := 0; i < n; i++ {
		c := poly[i]
		d := poly[(i+1)%n]
		if segmentsIntersect(a, b, c, d) {
			return true
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func direction(a, b, c Point) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (c.Y-a.Y)*(b.X-a.X)
}
