package dashboard

// Phase is the controller's lifecycle phase.
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// State is the published tri-state: exactly one phase is meaningful at a
// time. Snapshot is set only for PhaseReady, Err only for PhaseFailed.
// After the first refresh resolves the phase is always ready or failed.
type State struct {
	Phase    Phase
	Snapshot Snapshot
	Err      error
}

// Pending is the initial state before the first refresh resolves.
func Pending() State { return State{Phase: PhasePending} }

// ReadyState wraps a complete snapshot.
func ReadyState(s Snapshot) State { return State{Phase: PhaseReady, Snapshot: s} }

// FailedState wraps an aggregate refresh failure.
func FailedState(err error) State { return State{Phase: PhaseFailed, Err: err} }
