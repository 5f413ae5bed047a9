package scenario

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Save encodes w as a ScenarioDocument and writes it to dst as indented
// JSON. Mutable runtime state (current position/battery/weight, delivery
// status) is intentionally not captured: Save/Load round-trip a scenario's
// static definition, not a mid-run snapshot — use world.World.Snapshot for
// the latter.
func Save(dst io.Writer, w *world.World) error {
	doc := ScenarioDocument{Name: "scenario"}

	for _, d := range w.Drones() {
		doc.Drones = append(doc.Drones, DroneSpec{
			ID:              string(d.ID),
			MaxWeight:       d.MaxWeight,
			BatteryCapacity: d.BatteryCapacity,
			Speed:           d.Speed,
			StartPosition:   d.StartPosition,
		})
	}

	for _, d := range w.Deliveries() {
		doc.Deliveries = append(doc.Deliveries, DeliverySpec{
			ID:              string(d.ID),
			Position:        d.Position,
			Weight:          d.Weight,
			Priority:        d.Priority,
			TimeWindowStart: formatTime(d.WindowStart),
			TimeWindowEnd:   formatTime(d.WindowEnd),
		})
	}

	for _, z := range w.Zones() {
		poly := make([]geometry.Point, len(z.Polygon))
		copy(poly, z.Polygon)
		doc.NoFlyZones = append(doc.NoFlyZones, ZoneSpec{
			ID:                 string(z.ID),
			PolygonCoordinates: poly,
			ActiveTimeStart:    formatTime(z.ActiveStart),
			ActiveTimeEnd:      formatTime(z.ActiveEnd),
		})
	}

	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
