package assign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

func TestCSPSolveSingleDroneSingleDelivery(t *testing.T) {
	// S1: one drone, one in-window delivery, no zones -> CSP returns
	// {X: D1}.
	now := time.Now()
	drone := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	delivery := world.NewDelivery("X", geometry.Point{X: 5, Y: 0}, 1, 1, now.Add(-time.Hour), now.Add(time.Hour))

	solver := NewCSPSolver([]*world.Delivery{delivery}, []*world.Drone{drone}, now, CSPOptions{})
	result, ok := solver.Solve()

	require.True(t, ok, "expected a feasible assignment")
	require.Equal(t, world.DroneID("D1"), result["X"])
}

func TestCSPSolveCapacityConflictIsInfeasible(t *testing.T) {
	// S3: two deliveries of weight 6 each, one drone of capacity 10.
	now := time.Now()
	drone := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	d1 := world.NewDelivery("A", geometry.Point{X: 1, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))
	d2 := world.NewDelivery("B", geometry.Point{X: 2, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))

	solver := NewCSPSolver([]*world.Delivery{d1, d2}, []*world.Drone{drone}, now, CSPOptions{})
	_, ok := solver.Solve()

	require.False(t, ok, "expected infeasibility under a single drone's capacity")
}

func TestCSPSolveCapacityConflictResolvedBySecondDrone(t *testing.T) {
	now := time.Now()
	d1 := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	d2 := world.NewDrone("D2", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	a := world.NewDelivery("A", geometry.Point{X: 1, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))
	b := world.NewDelivery("B", geometry.Point{X: 2, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))

	solver := NewCSPSolver([]*world.Delivery{a, b}, []*world.Drone{d1, d2}, now, CSPOptions{})
	result, ok := solver.Solve()

	require.True(t, ok)
	require.NotEqual(t, result["A"], result["B"], "the two heavy deliveries must land on different drones")
}

func TestCSPSolveRejectsOutOfWindowDelivery(t *testing.T) {
	now := time.Now()
	drone := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	delivery := world.NewDelivery("X", geometry.Point{X: 5, Y: 0}, 1, 1, now.Add(time.Hour), now.Add(2*time.Hour))

	solver := NewCSPSolver([]*world.Delivery{delivery}, []*world.Drone{drone}, now, CSPOptions{})
	_, ok := solver.Solve()

	require.False(t, ok, "a delivery whose window excludes now cannot be assigned under TimeWindowConstraint")
}
