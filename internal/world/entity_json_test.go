package world

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
)

func TestDroneJSONRoundTrip(t *testing.T) {
	d := NewDrone("D1", 10, 100, 10, geometry.Point{X: 0, Y: 0})
	d.UpdatePosition(geometry.Point{X: 5, Y: 0}, 5)
	d.CurrentWeight = 3

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Drone
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != d.ID || got.MaxWeight != d.MaxWeight || got.BatteryCapacity != d.BatteryCapacity || got.Speed != d.Speed {
		t.Errorf("immutable fields diverged: got %+v, want %+v", got, d)
	}
	if got.StartPosition != d.StartPosition || got.CurrentPosition != d.CurrentPosition {
		t.Errorf("positions diverged: got %+v, want %+v", got, d)
	}
	if got.CurrentBattery != d.CurrentBattery || got.CurrentWeight != d.CurrentWeight {
		t.Errorf("mutable scalars diverged: got %+v, want %+v", got, d)
	}
	if len(got.Route) != len(d.Route) {
		t.Fatalf("route length diverged: got %d, want %d", len(got.Route), len(d.Route))
	}
	for i := range d.Route {
		if got.Route[i] != d.Route[i] {
			t.Errorf("route point %d diverged: got %v, want %v", i, got.Route[i], d.Route[i])
		}
	}
}

func TestDeliveryJSONRoundTripPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDelivery("X", geometry.Point{X: 1, Y: 1}, 2, 3, now.Add(-time.Hour), now.Add(time.Hour))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Delivery
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != d.ID || got.Position != d.Position || got.Weight != d.Weight || got.Priority != d.Priority {
		t.Errorf("fields diverged: got %+v, want %+v", got, d)
	}
	if !got.WindowStart.Equal(d.WindowStart) || !got.WindowEnd.Equal(d.WindowEnd) {
		t.Errorf("time window diverged: got [%v,%v], want [%v,%v]", got.WindowStart, got.WindowEnd, d.WindowStart, d.WindowEnd)
	}
	if got.Status != StatusPending || got.AssignedDrone != "" {
		t.Errorf("pending delivery must round-trip with no assigned drone: %+v", got)
	}
	if got.HasActualDeliveryTime() {
		t.Error("pending delivery must not round-trip an actual delivery time")
	}
}

func TestDeliveryJSONRoundTripCompleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDelivery("X", geometry.Point{X: 1, Y: 1}, 2, 1, now.Add(-time.Hour), now.Add(time.Hour))
	d.Assign("D1")
	d.Complete(now)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Delivery
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Status != StatusCompleted || got.AssignedDrone != "D1" {
		t.Fatalf("assignment/status did not round-trip: %+v", got)
	}
	if !got.HasActualDeliveryTime() || !got.ActualDeliveryTime.Equal(d.ActualDeliveryTime) {
		t.Fatalf("actual delivery time did not round-trip: got %v, want %v", got.ActualDeliveryTime, d.ActualDeliveryTime)
	}
}

func TestNoFlyZoneJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	poly := geometry.Polygon{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}
	z := NewNoFlyZone("Z1", poly, now.Add(-time.Hour), now.Add(time.Hour))

	data, err := json.Marshal(z)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got NoFlyZone
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != z.ID {
		t.Errorf("id diverged: got %v, want %v", got.ID, z.ID)
	}
	if len(got.Polygon) != len(z.Polygon) {
		t.Fatalf("polygon length diverged: got %d, want %d", len(got.Polygon), len(z.Polygon))
	}
	for i := range z.Polygon {
		if got.Polygon[i] != z.Polygon[i] {
			t.Errorf("vertex %d diverged: got %v, want %v", i, got.Polygon[i], z.Polygon[i])
		}
	}
	if !got.ActiveStart.Equal(z.ActiveStart) || !got.ActiveEnd.Equal(z.ActiveEnd) {
		t.Errorf("active window diverged: got [%v,%v], want [%v,%v]", got.ActiveStart, got.ActiveEnd, z.ActiveStart, z.ActiveEnd)
	}
}
