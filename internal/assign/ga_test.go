package assign

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

func TestGARunReturnsAssignmentForEveryDelivery(t *testing.T) {
	now := time.Now()
	drone := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	a := world.NewDelivery("A", geometry.Point{X: 1, Y: 0}, 1, 1, now.Add(-time.Hour), now.Add(time.Hour))
	b := world.NewDelivery("B", geometry.Point{X: 2, Y: 0}, 1, 1, now.Add(-time.Hour), now.Add(time.Hour))

	solver := NewGASolver([]*world.Delivery{a, b}, []*world.Drone{drone}, nil,
		GAOptions{PopulationSize: 20, Generations: 10}, rand.New(rand.NewSource(1)))

	result, fitness := solver.Run()

	require.Len(t, result, 2)
	require.Contains(t, result, world.DeliveryID("A"))
	require.Contains(t, result, world.DeliveryID("B"))
	require.Greater(t, fitness, -900.0, "a feasible 2-delivery case should beat the 1-violation floor")
}

func TestGACapacityConflictProducesViolation(t *testing.T) {
	// S3: two deliveries of weight 6, one drone capacity 10 -> GA
	// fitness must reflect at least one violation (< 100 - 1000 = -900).
	now := time.Now()
	drone := world.NewDrone("D1", 10, 1000, 10, geometry.Point{X: 0, Y: 0})
	a := world.NewDelivery("A", geometry.Point{X: 1, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))
	b := world.NewDelivery("B", geometry.Point{X: 2, Y: 0}, 6, 1, now.Add(-time.Hour), now.Add(time.Hour))

	solver := NewGASolver([]*world.Delivery{a, b}, []*world.Drone{drone}, nil,
		GAOptions{PopulationSize: 30, Generations: 20}, rand.New(rand.NewSource(42)))

	_, fitness := solver.Run()

	require.Less(t, fitness, -900.0, "single-drone capacity conflict must cost at least one violation")
}

func TestGAParityLookupBugFlag(t *testing.T) {
	// With a single delivery and a single drone the positional and
	// by-gene lookups coincide, so exercise the flag with two drones and
	// one delivery whose gene assigns delivery 0 to drone 1:
	// the parity path checks capacity against drones[0] regardless of
	// the gene, while the corrected path checks against the gene's drone.
	now := time.Now()
	small := world.NewDrone("small", 1, 1000, 10, geometry.Point{X: 0, Y: 0})
	big := world.NewDrone("big", 100, 1000, 10, geometry.Point{X: 0, Y: 0})
	heavy := world.NewDelivery("heavy", geometry.Point{X: 1, Y: 0}, 5, 1, now.Add(-time.Hour), now.Add(time.Hour))

	ind := &Individual{Genes: []world.DroneID{"big"}}

	correctedSolver := NewGASolver([]*world.Delivery{heavy}, []*world.Drone{small, big}, nil, GAOptions{ParityLookupBug: false}, rand.New(rand.NewSource(1)))
	fitnessCorrected := correctedSolver.evaluate(ind)
	require.Equal(t, 100.0-0.1*1.0, fitnessCorrected, "assigning the heavy delivery to the big drone should succeed under corrected lookup (distance 1, starting weight 0)")

	paritySolver := NewGASolver([]*world.Delivery{heavy}, []*world.Drone{small, big}, nil, GAOptions{ParityLookupBug: true}, rand.New(rand.NewSource(1)))
	fitnessParity := paritySolver.evaluate(ind)
	require.Equal(t, -1000.0, fitnessParity, "parity mode checks capacity against drones[0] (the small drone) regardless of the gene")
}
