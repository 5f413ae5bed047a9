package scenario

import (
	"time"

	"github.com/google/uuid"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// FixtureOptions configures GenerateFixture.
type FixtureOptions struct {
	DroneCount    int
	DeliveryCount int
	GridWidth     float64
	GridHeight    float64
	Now           time.Time
}

// GenerateFixture builds a ScenarioDocument with freshly minted uuid ids,
// for demo runs and tests that need a scenario but don't care about its
// specific contents. Grounded on the teacher's tools/gen_instances
// deterministic-but-synthetic instance builder, with ids minted via
// google/uuid instead of sequential integers since spec entities are
// string-identified.
func GenerateFixture(opts FixtureOptions) ScenarioDocument {
	if opts.GridWidth <= 0 {
		opts.GridWidth = 20
	}
	if opts.GridHeight <= 0 {
		opts.GridHeight = 20
	}

	doc := ScenarioDocument{Name: "fixture-" + uuid.NewString()}

	for i := 0; i < opts.DroneCount; i++ {
		doc.Drones = append(doc.Drones, DroneSpec{
			ID:              uuid.NewString(),
			MaxWeight:       10,
			BatteryCapacity: 100,
			Speed:           10,
			StartPosition:   geometry.Point{X: 0, Y: 0},
		})
	}

	for i := 0; i < opts.DeliveryCount; i++ {
		x := float64(i%int(opts.GridWidth)) + 1
		y := float64(i%int(opts.GridHeight)) + 1
		doc.Deliveries = append(doc.Deliveries, DeliverySpec{
			ID:              uuid.NewString(),
			Position:        geometry.Point{X: x, Y: y},
			Weight:          1,
			Priority:        (i % 5) + 1,
			TimeWindowStart: formatTime(opts.Now.Add(-time.Hour)),
			TimeWindowEnd:   formatTime(opts.Now.Add(time.Hour)),
		})
	}

	return doc
}

// Build is a convenience that loads a generated fixture directly into a
// world.World without a round-trip through JSON.
func Build(doc ScenarioDocument, now time.Time) *world.World {
	w := world.New(now)
	for _, ds := range doc.Drones {
		w.AddDrone(world.NewDrone(world.DroneID(ds.ID), ds.MaxWeight, ds.BatteryCapacity, ds.Speed, ds.StartPosition))
	}
	for _, ds := range doc.Deliveries {
		start, _ := parseTime(ds.TimeWindowStart)
		end, _ := parseTime(ds.TimeWindowEnd)
		w.AddDelivery(world.NewDelivery(world.DeliveryID(ds.ID), ds.Position, ds.Weight, ds.Priority, start, end))
	}
	for _, zs := range doc.NoFlyZones {
		activeStart, _ := parseTime(zs.ActiveTimeStart)
		activeEnd, _ := parseTime(zs.ActiveTimeEnd)
		poly := make(geometry.Polygon, len(zs.PolygonCoordinates))
		copy(poly, zs.PolygonCoordinates)
		w.AddZone(world.NewNoFlyZone(world.ZoneID(zs.ID), poly, activeStart, activeEnd))
	}
	return w
}
