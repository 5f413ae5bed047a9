// Package scenario serializes and deserializes a world.World as JSON,
// grounded on the teacher's tools/gen_instances JSON-instance idiom (plain
// tagged structs marshaled with encoding/json, no schema library). It also
// defines thin collaborator interfaces for the rendering/report boundary
// that spec.md places out of scope for the core.
package scenario

import "github.com/dronefleet/droneplan/internal/geometry"

// ScenarioDocument is the on-disk JSON shape of a scenario: a fleet of
// drones, a set of deliveries to serve, and the no-fly zones constraining
// the airspace.
type ScenarioDocument struct {
	Name       string         `json:"name"`
	Drones     []DroneSpec    `json:"drones"`
	Deliveries []DeliverySpec `json:"deliveries"`
	NoFlyZones []ZoneSpec     `json:"no_fly_zones"`
}

// DroneSpec is the on-disk shape of a drone.
type DroneSpec struct {
	ID              string         `json:"id"`
	MaxWeight       float64        `json:"max_weight"`
	BatteryCapacity float64        `json:"battery_capacity"`
	Speed           float64        `json:"speed"`
	StartPosition   geometry.Point `json:"start_position"`
}

// DeliverySpec is the on-disk shape of a delivery request. TimeWindowStart
// and TimeWindowEnd are RFC 3339 timestamps.
type DeliverySpec struct {
	ID              string         `json:"id"`
	Position        geometry.Point `json:"position"`
	Weight          float64        `json:"weight"`
	Priority        int            `json:"priority"`
	TimeWindowStart string         `json:"time_window_start"`
	TimeWindowEnd   string         `json:"time_window_end"`
}

// ZoneSpec is the on-disk shape of a no-fly zone. PolygonCoordinates is an
// ordered vertex list; ActiveTimeStart/ActiveTimeEnd are RFC 3339
// timestamps.
type ZoneSpec struct {
	ID                 string           `json:"id"`
	PolygonCoordinates []geometry.Point `json:"polygon_coordinates"`
	ActiveTimeStart    string           `json:"active_time_start"`
	ActiveTimeEnd      string           `json:"active_time_end"`
}
