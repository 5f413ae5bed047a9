package plan

import (
	"sort"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Sequencer turns an unordered set of deliveries into an ordered, feasible
// itinerary for a single drone, using the Router to validate reachability.
type Sequencer struct {
	Router *Router
}

// NewSequencer creates a Sequencer backed by the given router.
func NewSequencer(router *Router) *Sequencer {
	return &Sequencer{Router: router}
}

// Sequence stable-sorts deliveries by (priority asc, window start asc),
// then greedily walks the sorted list from the drone's current position,
// accepting a delivery only if it is within its time window at now, the
// router finds a path from the running cursor, the drone can still carry
// the delivery's weight, and the summed path distance fits the running
// battery estimate. It never mutates drone or deliveries; the returned
// slice is a prefix-feasible itinerary under these estimates. Each leg is
// accounted at the length of the router path from the running cursor, and
// the cursor then moves to the delivery's exact position, although the
// router only guarantees arrival within one resolution of it.
func (s *Sequencer) Sequence(drone *world.Drone, deliveries []*world.Delivery, zones []*world.NoFlyZone, now time.Time) []*world.Delivery {
	sorted := make([]*world.Delivery, len(deliveries))
	copy(sorted, deliveries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].WindowStart.Before(sorted[j].WindowStart)
	})

	estimator := drone.Clone()
	cursor := estimator.CurrentPosition

	var accepted []*world.Delivery

	for _, d := range sorted {
		if !d.IsWithinTimeWindow(now) {
			continue
		}

		path := s.Router.FindPath(cursor, d.Position, estimator, zones, now)
		if len(path) == 0 {
			continue
		}

		dist := PathLength(path)
		if !estimator.CanCarry(d.Weight) {
			continue
		}
		if !estimator.HasSufficientBattery(dist) {
			continue
		}

		accepted = append(accepted, d)
		estimator.CurrentBattery -= estimator.EnergyForDistance(dist)
		estimator.CurrentWeight += d.Weight
		cursor = nearestGridPoint(d.Position)
		estimator.CurrentPosition = cursor
	}

	return accepted
}

// nearestGridPoint is the identity for the continuous coordinates used by
// the sequencer's cursor; kept as a named step since the router itself only
// guarantees arrival within one resolution of the requested goal.
func nearestGridPoint(p geometry.Point) geometry.Point {
	return p
}
