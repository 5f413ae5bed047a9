// Package plan implements the spatial path planner and the per-drone
// delivery sequencer. Both are pure functions of a world snapshot: they
// read drones, deliveries and zones but never mutate them, returning
// results for a caller (internal/world, internal/sim) to commit.
package plan

import (
	"container/heap"
	"math"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// DefaultResolution is the grid spacing used by Router when none is
// configured.
const DefaultResolution = 1.0

// neighborOffsets lists the 8-connected neighbor deltas in the fixed
// expansion order N, E, S, W, NE, NW, SE, SW, matching the tie-break rule
// of §4.2: ties in the open set are broken by stable insertion order, and
// insertion order is in turn driven by this fixed neighbor order.
var neighborOffsets = [8][2]float64{
	{0, 1},   // N
	{1, 0},   // E
	{0, -1},  // S
	{-1, 0},  // W
	{1, 1},   // NE
	{-1, 1},  // NW
	{1, -1},  // SE
	{-1, -1}, // SW
}

// Router finds weighted-A* paths across a bounded 2D grid, treating active
// no-fly zones as obstacles with a distance-based approach penalty.
type Router struct {
	// Width and Height bound the grid to [0, Width) x [0, Height).
	Width, Height float64
	// Resolution is the lattice spacing; 8-connected neighbors are offset
	// by +/-Resolution along each axis. Defaults to DefaultResolution.
	Resolution float64
}

// NewRouter creates a Router bounding the grid to [0,width) x [0,height).
func NewRouter(width, height float64) *Router {
	return &Router{Width: width, Height: height, Resolution: DefaultResolution}
}

func (r *Router) resolution() float64 {
	if r.Resolution > 0 {
		return r.Resolution
	}
	return DefaultResolution
}

// routeNode is a priority-queue entry for the A* open set.
type routeNode struct {
	pos     geometry.Point
	g       float64 // cost so far
	f       float64 // g + heuristic
	parent  *routeNode
	seq     int // insertion sequence, for stable tie-breaking
	index   int // heap index, maintained by container/heap
}

type routeHeap []*routeNode

func (h routeHeap) Len() int { return len(h) }
func (h routeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h routeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *routeHeap) Push(x any) {
	n := x.(*routeNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *routeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// zonePenalty sums the penalty every active zone imposes on point at now.
// It returns +Inf as soon as point lies inside any active zone's polygon.
func zonePenalty(point geometry.Point, zones []*world.NoFlyZone, now time.Time) float64 {
	total := 0.0
	for _, z := range zones {
		p := z.Penalty(point, now)
		if math.IsInf(p, 1) {
			return math.Inf(1)
		}
		total += p
	}
	return total
}

func (r *Router) inBounds(p geometry.Point) bool {
	return p.X >= 0 && p.X < r.Width && p.Y >= 0 && p.Y < r.Height
}

// FindPath returns an ordered sequence of points from start to within one
// grid resolution of goal, honoring no-fly zone penalties and the drone's
// remaining energy budget. It returns an empty slice if no feasible path
// exists, or if a reconstructed path does not begin exactly at start.
func (r *Router) FindPath(start, goal geometry.Point, drone *world.Drone, zones []*world.NoFlyZone, now time.Time) []geometry.Point {
	res := r.resolution()

	open := &routeHeap{}
	heap.Init(open)

	seq := 0
	startNode := &routeNode{pos: start, g: 0, f: geometry.Distance(start, goal), seq: seq}
	seq++
	heap.Push(open, startNode)

	bestG := map[geometry.Point]float64{start: 0}
	closed := map[geometry.Point]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*routeNode)

		if closed[current.pos] {
			continue
		}

		if geometry.Distance(current.pos, goal) < res {
			return reconstructPath(current, start)
		}

		closed[current.pos] = true

		for _, off := range neighborOffsets {
			next := geometry.Point{X: current.pos.X + off[0]*res, Y: current.pos.Y + off[1]*res}
			if !r.inBounds(next) {
				continue
			}
			if closed[next] {
				continue
			}

			moveCost := geometry.Distance(current.pos, next)
			penalty := zonePenalty(next, zones, now)
			if math.IsInf(penalty, 1) {
				continue
			}

			newG := current.g + moveCost + penalty

			if drone != nil && !drone.HasSufficientBattery(newG) {
				continue
			}

			if existing, ok := bestG[next]; ok && existing <= newG {
				continue
			}
			bestG[next] = newG

			node := &routeNode{
				pos:    next,
				g:      newG,
				f:      newG + geometry.Distance(next, goal),
				parent: current,
				seq:    seq,
			}
			seq++
			heap.Push(open, node)
		}
	}

	return nil
}

// reconstructPath walks parent pointers back to the root. If the walk does
// not terminate exactly at start, the search is treated as unreachable
// under current constraints and an empty path is returned (§4.2's
// preserved edge case).
func reconstructPath(goalNode *routeNode, start geometry.Point) []geometry.Point {
	var rev []geometry.Point
	for n := goalNode; n != nil; n = n.parent {
		rev = append(rev, n.pos)
	}

	path := make([]geometry.Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}

	if len(path) == 0 || path[0] != start {
		return nil
	}
	return path
}

// PathLength sums the Euclidean length of consecutive segments in path.
func PathLength(path []geometry.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += geometry.Distance(path[i], path[i+1])
	}
	return total
}
