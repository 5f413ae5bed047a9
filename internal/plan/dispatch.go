package plan

import (
	"math/rand"
	"time"

	"github.com/dronefleet/droneplan/internal/assign"
	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Mode selects which fleet-level assignment strategy produces the
// drone-to-delivery mapping consumed by the sequencer and router. It
// mirrors the three optimizer entry points the Python source exposed as
// separate GUI button handlers (run_astar_optimization,
// run_csp_optimization, run_ga_optimization), collapsed here into one enum
// consulted by a single dispatch point.
type Mode string

const (
	// ModeAStarSequence assigns every delivery to the drone whose current
	// position is nearest to it and relies purely on the sequencer
	// and router to produce a feasible itinerary; no fleet-level
	// assignment optimization runs.
	ModeAStarSequence Mode = "astar-sequence"
	// ModeCSP uses the exact backtracking constraint solver.
	ModeCSP Mode = "csp"
	// ModeGenetic uses the population-based genetic algorithm.
	ModeGenetic Mode = "genetic"
)

// PlanOptions carries the per-mode knobs Plan needs: a GA random source
// (used only by ModeGenetic, which falls back to a source seeded with 1
// when Rand is nil) and optional CSP/GA overrides.
type PlanOptions struct {
	Router  *Router
	Rand    *rand.Rand
	CSP     assign.CSPOptions
	GA      assign.GAOptions
}

// Itinerary is a drone's sequenced, feasible delivery list, keyed by drone
// id, as produced by Plan.
type Itinerary map[world.DroneID][]*world.Delivery

// Plan dispatches to the strategy named by mode and returns a per-drone
// sequenced itinerary. This collapses the Python source's three
// near-duplicate GUI handlers (run_astar_optimization, run_csp_optimization,
// run_ga_optimization) into the single entry point DESIGN NOTES calls for.
func Plan(mode Mode, drones []*world.Drone, deliveries []*world.Delivery, zones []*world.NoFlyZone, now time.Time, opts PlanOptions) Itinerary {
	router := opts.Router
	if router == nil {
		router = NewRouter(20, 20)
	}
	sequencer := NewSequencer(router)

	var grouped map[world.DroneID][]*world.Delivery

	switch mode {
	case ModeCSP:
		solver := assign.NewCSPSolver(deliveries, drones, now, opts.CSP)
		result, ok := solver.Solve()
		if !ok {
			return Itinerary{}
		}
		grouped = groupByAssignment(result, deliveries)
	case ModeGenetic:
		rnd := opts.Rand
		if rnd == nil {
			rnd = rand.New(rand.NewSource(1))
		}
		solver := assign.NewGASolver(deliveries, drones, zones, opts.GA, rnd)
		result, _ := solver.Run()
		grouped = groupByAssignment(result, deliveries)
	default: // ModeAStarSequence
		grouped = groupByNearestDrone(drones, deliveries)
	}

	itinerary := make(Itinerary, len(drones))
	for _, drone := range drones {
		itinerary[drone.ID] = sequencer.Sequence(drone, grouped[drone.ID], zones, now)
	}
	return itinerary
}

func groupByAssignment(assignment assign.Assignment, deliveries []*world.Delivery) map[world.DroneID][]*world.Delivery {
	grouped := make(map[world.DroneID][]*world.Delivery)
	for _, d := range deliveries {
		if droneID, ok := assignment[d.ID]; ok {
			grouped[droneID] = append(grouped[droneID], d)
		}
	}
	return grouped
}

// groupByNearestDrone assigns every delivery to whichever drone starts
// closest to it, performing no fleet-level load balancing: the sequencer
// alone decides what each drone can actually serve.
func groupByNearestDrone(drones []*world.Drone, deliveries []*world.Delivery) map[world.DroneID][]*world.Delivery {
	grouped := make(map[world.DroneID][]*world.Delivery)
	if len(drones) == 0 {
		return grouped
	}
	for _, d := range deliveries {
		nearest := drones[0]
		best := geometry.Distance(nearest.CurrentPosition, d.Position)
		for _, candidate := range drones[1:] {
			if dist := geometry.Distance(candidate.CurrentPosition, d.Position); dist < best {
				best = dist
				nearest = candidate
			}
		}
		grouped[nearest.ID] = append(grouped[nearest.ID], d)
	}
	return grouped
}
