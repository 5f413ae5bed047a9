package world

import "github.com/dronefleet/droneplan/internal/geometry"

// DroneID is an opaque drone identifier.
type DroneID string

// Drone is a delivery vehicle with capacity and energy budgets.
//
// MaxWeight, BatteryCapacity, Speed and StartPosition are immutable after
// creation. CurrentPosition, CurrentBattery, CurrentWeight and Route are
// mutated by the caller committing a router path (extending Route), the
// simulator (popping waypoints, debiting battery) and Reset.
type Drone struct {
	ID              DroneID        `json:"id"`
	MaxWeight       float64        `json:"max_weight"`
	BatteryCapacity float64        `json:"battery_capacity"`
	Speed           float64        `json:"speed"`
	StartPosition   geometry.Point `json:"start_position"`

	CurrentPosition geometry.Point   `json:"current_position"`
	CurrentBattery  float64          `json:"current_battery"`
	CurrentWeight   float64          `json:"current_weight"`
	Route           []geometry.Point `json:"route"`
}

// NewDrone creates a drone at its initial state: full battery, no payload,
// a route containing only the start position.
func NewDrone(id DroneID, maxWeight, batteryCapacity, speed float64, start geometry.Point) *Drone {
	d := &Drone{
		ID:              id,
		MaxWeight:       maxWeight,
		BatteryCapacity: batteryCapacity,
		Speed:           speed,
		StartPosition:   start,
	}
	d.Reset()
	return d
}

// Reset restores the drone to its initial state.
func (d *Drone) Reset() {
	d.CurrentPosition = d.StartPosition
	d.CurrentBattery = d.BatteryCapacity
	d.CurrentWeight = 0
	d.Route = []geometry.Point{d.StartPosition}
}

// CanCarry reports whether the drone can take on additional weight without
// exceeding MaxWeight.
func (d *Drone) CanCarry(weight float64) bool {
	return d.CurrentWeight+weight <= d.MaxWeight
}

// EnergyForDistance returns the battery units consumed by traveling dist
// while carrying the drone's current weight.
func (d *Drone) EnergyForDistance(dist float64) float64 {
	return energyForDistance(dist, d.Speed, d.CurrentWeight)
}

func energyForDistance(dist, speed, weight float64) float64 {
	if speed <= 0 {
		return 0
	}
	return (dist / speed) * (1 + 0.1*weight)
}

// HasSufficientBattery reports whether the drone's current battery covers
// travelling requiredDistance at its current weight.
func (d *Drone) HasSufficientBattery(requiredDistance float64) bool {
	return d.CurrentBattery >= d.EnergyForDistance(requiredDistance)
}

// UpdatePosition moves the drone to newPosition, appends it to Route, and
// debits battery for the distance travelled at the drone's current weight.
func (d *Drone) UpdatePosition(newPosition geometry.Point, distance float64) {
	d.CurrentPosition = newPosition
	d.Route = append(d.Route, newPosition)
	d.CurrentBattery -= d.EnergyForDistance(distance)
}

// Clone returns a deep copy of the drone, safe for a planner to mutate
// without affecting the world's owned copy.
func (d *Drone) Clone() *Drone {
	cp := *d
	cp.Route = append([]geometry.Point(nil), d.Route...)
	return &cp
}
