package plan

import (
	"testing"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

func TestFindPathStraightShot(t *testing.T) {
	// S1: 20x20 grid, D1 at (0,0) capacity 10 battery 1000 speed 10,
	// delivery X at (5,0), no zones.
	r := NewRouter(20, 20)
	d := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	now := time.Now()

	path := r.FindPath(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 0}, d, nil, now)

	if len(path) == 0 {
		t.Fatal("expected a feasible path")
	}
	if path[0] != (geometry.Point{X: 0, Y: 0}) {
		t.Fatalf("path must start at start: %v", path[0])
	}
	if len(path) != 6 {
		t.Fatalf("expected a 6-point path, got %d: %v", len(path), path)
	}
	for i := 0; i+1 < len(path); i++ {
		if geometry.Distance(path[i], path[i+1]) > 1.5 {
			t.Fatalf("non-adjacent step between %v and %v", path[i], path[i+1])
		}
	}
}

func TestFindPathZoneDetour(t *testing.T) {
	// S2: same as S1 but a zone blocks the direct line.
	r := NewRouter(20, 20)
	d := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	now := time.Now()
	zone := world.NewNoFlyZone("Z",
		geometry.Polygon{{X: 2, Y: -1}, {X: 2, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: -1}},
		now.Add(-time.Hour), now.Add(time.Hour))

	path := r.FindPath(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 0}, d, []*world.NoFlyZone{zone}, now)

	if len(path) == 0 {
		t.Fatal("expected a detour path to exist")
	}
	if PathLength(path) <= 5 {
		t.Fatalf("expected detour to be longer than the direct 5-unit path, got %v", PathLength(path))
	}
	for _, p := range path {
		if p.X >= 2 && p.X <= 4 && p.Y >= -1 && p.Y <= 1 && zone.Contains(p) {
			t.Fatalf("path point %v falls inside the active zone", p)
		}
	}
}

func TestFindPathEnergyPruning(t *testing.T) {
	// S6: battery exactly enough for 3 grid steps, goal 10 steps away.
	r := NewRouter(20, 20)
	d := world.NewDrone("D1", 10, 0, 10, geometry.Point{X: 0, Y: 0})
	d.CurrentBattery = 3 * (1.0 / 10.0) // 3 steps worth of energy at weight 0
	now := time.Now()

	path := r.FindPath(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, d, nil, now)

	if len(path) != 0 {
		t.Fatalf("expected empty path when energy cannot cover the distance, got %v", path)
	}
}

func TestFindPathNoFeasiblePathReturnsEmpty(t *testing.T) {
	r := NewRouter(5, 5)
	d := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	now := time.Now()

	// Goal outside grid bounds is unreachable.
	path := r.FindPath(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}, d, nil, now)
	if len(path) != 0 {
		t.Fatalf("expected empty path for an out-of-bounds goal, got %v", path)
	}
}
