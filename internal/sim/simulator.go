package sim

import (
	"sync"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Metrics accumulates counters across ticks for a reporter to surface.
// Grounded on the teacher's SimulationMetrics struct, trimmed to the
// counters this discrete waypoint model actually produces.
type Metrics struct {
	TicksElapsed    int
	WaypointsPopped int
	BatteryDebited  float64
}

// Simulator advances a world by fixed discrete ticks: each drone with more
// than one remaining route waypoint consumes the next one, debiting battery
// for the straight-line hop. This replaces the teacher's continuous
// per-frame robot movement (interpolated along a timed path) with the
// single per-tick waypoint pop described by §4.7.
type Simulator struct {
	mu      sync.Mutex
	World   *world.World
	Clock   *Clock
	Metrics Metrics
}

// NewSimulator creates a Simulator bound to w, ticking clk forward once per
// Tick call.
func NewSimulator(w *world.World, clk *Clock) *Simulator {
	return &Simulator{World: w, Clock: clk}
}

// Tick advances the clock by one step and, for every drone with at least
// one waypoint left to travel, moves it to the next waypoint and debits
// battery for the straight-line distance covered. Completed deliveries are
// not inferred here: a caller marks a delivery complete once its drone
// reaches its position.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock.Advance()
	s.World.SetNow(now)
	s.Metrics.TicksElapsed++

	for _, drone := range s.World.Drones() {
		s.advanceDrone(drone)
	}
}

// advanceDrone consumes drone.Route[1], leaving route[0] equal to the
// drone's new current position. This intentionally diverges from
// Drone.UpdatePosition (which appends to Route, for router path commits);
// the simulator instead retires the waypoint behind it.
func (s *Simulator) advanceDrone(drone *world.Drone) {
	if len(drone.Route) < 2 {
		return
	}

	current := drone.Route[0]
	next := drone.Route[1]
	distance := geometry.Distance(current, next)
	energy := drone.EnergyForDistance(distance)

	drone.CurrentBattery -= energy
	drone.CurrentPosition = next
	drone.Route = drone.Route[1:]

	s.Metrics.WaypointsPopped++
	s.Metrics.BatteryDebited += energy
}

// Run ticks the simulator n times, or until every drone's route has been
// fully consumed, whichever comes first.
func (s *Simulator) Run(n int) {
	for i := 0; i < n; i++ {
		if s.allRoutesConsumed() {
			return
		}
		s.Tick()
	}
}

func (s *Simulator) allRoutesConsumed() bool {
	for _, drone := range s.World.Drones() {
		if len(drone.Route) >= 2 {
			return false
		}
	}
	return true
}

// Elapsed reports how much logical time the simulator has advanced.
func (s *Simulator) Elapsed() time.Duration {
	return time.Duration(s.Metrics.TicksElapsed) * s.Clock.Step
}
