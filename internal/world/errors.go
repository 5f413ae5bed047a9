package world

import "errors"

// ErrInputValidation is wrapped by errors raised while loading or mutating
// a scenario: malformed documents, degenerate polygons, negative
// capacity/weight, or a time window whose end precedes its start. The world
// is left untouched when this error is returned.
var ErrInputValidation = errors.New("input validation")

// ErrRuntimeInvariant signals that an operation would violate a world
// invariant (battery below zero, weight above capacity). Treated as a bug:
// callers that opt into World.StrictInvariants get this returned instead of
// a silent clamp.
var ErrRuntimeInvariant = errors.New("runtime invariant violated")

// ErrUnknownDrone is returned when an operation references a drone id not
// present in the world.
var ErrUnknownDrone = errors.New("unknown drone")

// ErrUnknownDelivery is returned when an operation references a delivery id
// not present in the world.
var ErrUnknownDelivery = errors.New("unknown delivery")
