// Package assign implements the two fleet-level assignment optimizers: an
// exact backtracking constraint solver (CSPSolver) and an approximate
// genetic algorithm (GASolver). Both are pure functions of a world
// snapshot — neither mutates the drones, deliveries or zones it is given.
package assign

import (
	"time"

	"github.com/dronefleet/droneplan/internal/world"
)

// Assignment maps a delivery id to the drone id serving it. A total
// assignment covers every delivery passed to Solve.
type Assignment map[world.DeliveryID]world.DroneID

// PartialAssignment is the state threaded through backtracking search: it
// grows by one variable per recursive call and shrinks on backtrack.
type PartialAssignment map[world.DeliveryID]world.DroneID

// Constraint is a predicate over a partial assignment and the problem's
// world snapshot. Re-architected from the Python source's callable
// registry (`add_constraint` / `all(c(a) for c in cs)`) into a sealed
// variant: Capacity, TimeWindow and Battery are the only built-ins, plus
// whatever additional Constraint values a caller supplies — constraints
// receive the snapshot by parameter rather than closing over solver state,
// fixing the dormant `self.deliveries`/`self.drones` reference in the
// Python `_weight_constraint` (a must-fix, not a style choice).
type Constraint interface {
	// Satisfied reports whether assignment is consistent with this
	// constraint, given the full candidate delivery/drone sets and the
	// current simulation time.
	Satisfied(assignment PartialAssignment, deliveries []*world.Delivery, drones []*world.Drone, now time.Time) bool
}

// CapacityConstraint rejects an assignment once a drone's accumulated
// delivery weight would exceed its MaxWeight.
type CapacityConstraint struct{}

// Satisfied implements Constraint.
func (CapacityConstraint) Satisfied(assignment PartialAssignment, deliveries []*world.Delivery, drones []*world.Drone, _ time.Time) bool {
	deliveryByID := indexDeliveries(deliveries)
	droneByID := indexDrones(drones)

	load := make(map[world.DroneID]float64, len(drones))
	for deliveryID, droneID := range assignment {
		d := deliveryByID[deliveryID]
		drone := droneByID[droneID]
		if d == nil || drone == nil {
			continue
		}
		load[droneID] += d.Weight
		if load[droneID] > drone.MaxWeight {
			return false
		}
	}
	return true
}

// TimeWindowConstraint requires that every assigned delivery's time window
// contains now. This resolves DESIGN NOTES open question 3 with the
// proposed precise semantics rather than leaving the hook as an
// always-true stub.
type TimeWindowConstraint struct{}

// Satisfied implements Constraint.
func (TimeWindowConstraint) Satisfied(assignment PartialAssignment, deliveries []*world.Delivery, _ []*world.Drone, now time.Time) bool {
	deliveryByID := indexDeliveries(deliveries)
	for deliveryID := range assignment {
		d := deliveryByID[deliveryID]
		if d == nil {
			continue
		}
		if !d.IsWithinTimeWindow(now) {
			return false
		}
	}
	return true
}

// BatteryConstraint is a documented stub: it always accepts. The spec
// leaves its intended semantics unspecified beyond "piggybacks on the
// sequencer's energy estimate"; computing that estimate here would require
// running the router per candidate assignment, which the CSP's
// backtracking search cannot afford per node. Energy feasibility is instead
// enforced downstream by the sequencer and router once an assignment is
// fixed.
type BatteryConstraint struct{}

// Satisfied implements Constraint.
func (BatteryConstraint) Satisfied(PartialAssignment, []*world.Delivery, []*world.Drone, time.Time) bool {
	return true
}

// CSPOptions configures a CSPSolver.
type CSPOptions struct {
	// Constraints overrides the default {Capacity, TimeWindow, Battery}
	// set when non-nil.
	Constraints []Constraint
}

// CSPSolver solves delivery-to-drone assignment as a constraint
// satisfaction problem via chronological backtracking: one variable per
// delivery (domain = drone ids), variable order = input delivery order,
// value order = input drone order. No forward checking or
// arc-consistency is required for correctness.
type CSPSolver struct {
	Deliveries  []*world.Delivery
	Drones      []*world.Drone
	Now         time.Time
	Constraints []Constraint
}

// NewCSPSolver creates a solver over the given snapshot with the default
// constraint set, unless opts.Constraints is supplied.
func NewCSPSolver(deliveries []*world.Delivery, drones []*world.Drone, now time.Time, opts CSPOptions) *CSPSolver {
	constraints := opts.Constraints
	if constraints == nil {
		constraints = []Constraint{CapacityConstraint{}, TimeWindowConstraint{}, BatteryConstraint{}}
	}
	return &CSPSolver{Deliveries: deliveries, Drones: drones, Now: now, Constraints: constraints}
}

// Solve returns a total delivery->drone assignment and true, or a nil
// assignment and false if the problem is infeasible. Infeasibility is a
// plain result, never an error: callers interpret and surface it.
func (s *CSPSolver) Solve() (Assignment, bool) {
	assignment := make(PartialAssignment, len(s.Deliveries))
	if !s.backtrack(assignment) {
		return nil, false
	}
	out := make(Assignment, len(assignment))
	for k, v := range assignment {
		out[k] = v
	}
	return out, true
}

func (s *CSPSolver) isConsistent(assignment PartialAssignment) bool {
	for _, c := range s.Constraints {
		if !c.Satisfied(assignment, s.Deliveries, s.Drones, s.Now) {
			return false
		}
	}
	return true
}

// backtrack performs chronological backtracking search over s.Deliveries
// in input order, trying s.Drones in input order at each step.
func (s *CSPSolver) backtrack(assignment PartialAssignment) bool {
	if len(assignment) == len(s.Deliveries) {
		return true
	}

	var next *world.Delivery
	for _, d := range s.Deliveries {
		if _, assigned := assignment[d.ID]; !assigned {
			next = d
			break
		}
	}

	for _, drone := range s.Drones {
		assignment[next.ID] = drone.ID
		if s.isConsistent(assignment) {
			if s.backtrack(assignment) {
				return true
			}
		}
		delete(assignment, next.ID)
	}

	return false
}

func indexDeliveries(deliveries []*world.Delivery) map[world.DeliveryID]*world.Delivery {
	m := make(map[world.DeliveryID]*world.Delivery, len(deliveries))
	for _, d := range deliveries {
		m[d.ID] = d
	}
	return m
}

func indexDrones(drones []*world.Drone) map[world.DroneID]*world.Drone {
	m := make(map[world.DroneID]*world.Drone, len(drones))
	for _, d := range drones {
		m[d.ID] = d
	}
	return m
}
