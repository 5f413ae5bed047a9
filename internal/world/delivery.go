package world

import (
	"encoding/json"
	"time"

	"github.com/dronefleet/droneplan/internal/geometry"
)

// DeliveryID is an opaque delivery identifier.
type DeliveryID string

// DeliveryStatus is the lifecycle state of a delivery.
type DeliveryStatus string

const (
	StatusPending    DeliveryStatus = "pending"
	StatusInProgress DeliveryStatus = "in_progress"
	StatusCompleted  DeliveryStatus = "completed"
	StatusFailed     DeliveryStatus = "failed"
)

// Delivery is a package drop-off request with a priority and time window.
//
// Priority is an integer in [1,5]; lower numeric value means higher logical
// priority when sorting. WindowStart/WindowEnd form a closed interval during
// which the delivery is eligible for service.
type Delivery struct {
	ID          DeliveryID
	Position    geometry.Point
	Weight      float64
	Priority    int
	WindowStart time.Time
	WindowEnd   time.Time

	AssignedDrone         DroneID
	Status                DeliveryStatus
	ActualDeliveryTime    time.Time
	hasActualDeliveryTime bool
}

// NewDelivery creates a pending delivery with no drone assigned.
func NewDelivery(id DeliveryID, pos geometry.Point, weight float64, priority int, start, end time.Time) *Delivery {
	return &Delivery{
		ID:          id,
		Position:    pos,
		Weight:      weight,
		Priority:    priority,
		WindowStart: start,
		WindowEnd:   end,
		Status:      StatusPending,
	}
}

// IsWithinTimeWindow reports whether now falls inside the delivery's closed
// time window.
func (d *Delivery) IsWithinTimeWindow(now time.Time) bool {
	return !now.Before(d.WindowStart) && !now.After(d.WindowEnd)
}

// IsLate reports whether now is past the delivery's window end.
func (d *Delivery) IsLate(now time.Time) bool {
	return now.After(d.WindowEnd)
}

// Assign transitions a pending delivery to in_progress under the given
// drone.
func (d *Delivery) Assign(drone DroneID) {
	d.AssignedDrone = drone
	d.Status = StatusInProgress
}

// Complete transitions an in_progress delivery to completed, recording the
// actual delivery time.
func (d *Delivery) Complete(at time.Time) {
	d.Status = StatusCompleted
	d.ActualDeliveryTime = at
	d.hasActualDeliveryTime = true
}

// Fail transitions an in_progress delivery back to pending, releasing the
// drone link.
func (d *Delivery) Fail() {
	d.Status = StatusPending
	d.AssignedDrone = ""
}

// HasActualDeliveryTime reports whether ActualDeliveryTime has been set.
func (d *Delivery) HasActualDeliveryTime() bool {
	return d.hasActualDeliveryTime
}

// Clone returns a copy of the delivery.
func (d *Delivery) Clone() *Delivery {
	cp := *d
	return &cp
}

// deliveryJSON is the dictionary form spec.md §6 describes for entity
// serialization: the input schema's fields plus the delivery's mutable
// runtime state. assigned_drone and actual_delivery_time materialize as
// null when unset, mirroring the original Python's `... if x else None`.
type deliveryJSON struct {
	ID                 DeliveryID     `json:"id"`
	Position           geometry.Point `json:"position"`
	Weight             float64        `json:"weight"`
	Priority           int            `json:"priority"`
	TimeWindowStart    time.Time      `json:"time_window_start"`
	TimeWindowEnd      time.Time      `json:"time_window_end"`
	AssignedDrone      *DroneID       `json:"assigned_drone"`
	Status             DeliveryStatus `json:"status"`
	ActualDeliveryTime *time.Time     `json:"actual_delivery_time"`
}

// MarshalJSON encodes the delivery's full state, including mutable fields
// not present in the scenario-document wire format.
func (d *Delivery) MarshalJSON() ([]byte, error) {
	aux := deliveryJSON{
		ID:              d.ID,
		Position:        d.Position,
		Weight:          d.Weight,
		Priority:        d.Priority,
		TimeWindowStart: d.WindowStart,
		TimeWindowEnd:   d.WindowEnd,
		Status:          d.Status,
	}
	if d.AssignedDrone != "" {
		aux.AssignedDrone = &d.AssignedDrone
	}
	if d.hasActualDeliveryTime {
		aux.ActualDeliveryTime = &d.ActualDeliveryTime
	}
	return json.Marshal(aux)
}

// UnmarshalJSON decodes a delivery's full state, restoring the private
// hasActualDeliveryTime flag from the presence of actual_delivery_time.
func (d *Delivery) UnmarshalJSON(data []byte) error {
	var aux deliveryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ID = aux.ID
	d.Position = aux.Position
	d.Weight = aux.Weight
	d.Priority = aux.Priority
	d.WindowStart = aux.TimeWindowStart
	d.WindowEnd = aux.TimeWindowEnd
	d.Status = aux.Status
	d.AssignedDrone = ""
	if aux.AssignedDrone != nil {
		d.AssignedDrone = *aux.AssignedDrone
	}
	d.hasActualDeliveryTime = false
	if aux.ActualDeliveryTime != nil {
		d.ActualDeliveryTime = *aux.ActualDeliveryTime
		d.hasActualDeliveryTime = true
	}
	return nil
}
