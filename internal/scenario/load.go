package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Load decodes a ScenarioDocument from r and builds a world.World at the
// given logical time. All timestamps in the document must parse as RFC
// 3339; a malformed document, a degenerate polygon, negative capacity or
// weight, or a time window whose end precedes its start is reported wrapped
// in world.ErrInputValidation, and the world is never constructed.
func Load(r io.Reader, now time.Time) (*world.World, error) {
	var doc ScenarioDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w: %v", world.ErrInputValidation, err)
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	w := world.New(now)

	for _, ds := range doc.Drones {
		w.AddDrone(world.NewDrone(
			world.DroneID(ds.ID),
			ds.MaxWeight,
			ds.BatteryCapacity,
			ds.Speed,
			ds.StartPosition,
		))
	}

	for _, ds := range doc.Deliveries {
		start, _ := parseTime(ds.TimeWindowStart)
		end, _ := parseTime(ds.TimeWindowEnd)
		w.AddDelivery(world.NewDelivery(
			world.DeliveryID(ds.ID),
			ds.Position,
			ds.Weight,
			ds.Priority,
			start,
			end,
		))
	}

	for _, zs := range doc.NoFlyZones {
		activeStart, _ := parseTime(zs.ActiveTimeStart)
		activeEnd, _ := parseTime(zs.ActiveTimeEnd)
		poly := make(geometry.Polygon, len(zs.PolygonCoordinates))
		copy(poly, zs.PolygonCoordinates)
		w.AddZone(world.NewNoFlyZone(world.ZoneID(zs.ID), poly, activeStart, activeEnd))
	}

	return w, nil
}

// validate runs the InputValidation checks spec.md assigns to the loader,
// before any World entity is constructed, so a rejected document leaves no
// partially built world behind.
func validate(doc ScenarioDocument) error {
	for _, ds := range doc.Drones {
		if ds.MaxWeight < 0 {
			return fmt.Errorf("drone %q: max_weight %g is negative: %w", ds.ID, ds.MaxWeight, world.ErrInputValidation)
		}
		if ds.BatteryCapacity < 0 {
			return fmt.Errorf("drone %q: battery_capacity %g is negative: %w", ds.ID, ds.BatteryCapacity, world.ErrInputValidation)
		}
	}

	for _, ds := range doc.Deliveries {
		if ds.Weight < 0 {
			return fmt.Errorf("delivery %q: weight %g is negative: %w", ds.ID, ds.Weight, world.ErrInputValidation)
		}
		start, err := parseTime(ds.TimeWindowStart)
		if err != nil {
			return fmt.Errorf("delivery %q time_window_start: %w: %v", ds.ID, world.ErrInputValidation, err)
		}
		end, err := parseTime(ds.TimeWindowEnd)
		if err != nil {
			return fmt.Errorf("delivery %q time_window_end: %w: %v", ds.ID, world.ErrInputValidation, err)
		}
		if end.Before(start) {
			return fmt.Errorf("delivery %q: time_window_end precedes time_window_start: %w", ds.ID, world.ErrInputValidation)
		}
	}

	for _, zs := range doc.NoFlyZones {
		if len(zs.PolygonCoordinates) < 3 {
			return fmt.Errorf("zone %q: polygon has %d vertices, need at least 3: %w", zs.ID, len(zs.PolygonCoordinates), world.ErrInputValidation)
		}
		start, err := parseTime(zs.ActiveTimeStart)
		if err != nil {
			return fmt.Errorf("zone %q active_time_start: %w: %v", zs.ID, world.ErrInputValidation, err)
		}
		end, err := parseTime(zs.ActiveTimeEnd)
		if err != nil {
			return fmt.Errorf("zone %q active_time_end: %w: %v", zs.ID, world.ErrInputValidation, err)
		}
		if end.Before(start) {
			return fmt.Errorf("zone %q: active_time_end precedes active_time_start: %w", zs.ID, world.ErrInputValidation)
		}
	}

	return nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
