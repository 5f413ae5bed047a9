package scenario

import "github.com/dronefleet/droneplan/internal/world"

// Reporter is a narrow seam for the out-of-scope status/report surface:
// given a reason string, it records or displays an outcome (success,
// infeasibility, a runtime fault). Core packages never call a Reporter
// themselves; only a dispatcher (cmd/droneplan or an external caller) owns
// one.
type Reporter interface {
	Report(status string, reason string)
}

// StateObserver receives a read-only push of the world's state each time a
// dispatcher decides to notify it (e.g. once per simulation tick). It
// stands in for the out-of-scope rendering collaborator described by
// spec.md's Non-goals.
type StateObserver interface {
	ObserveState(snapshot world.Snapshot)
}
