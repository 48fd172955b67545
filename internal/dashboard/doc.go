// Package dashboard aggregates the status of heterogeneous inference
// backends into one published snapshot and drives control operations
// against them. It is structured into small files by concern:
//
//   - controller.go: Controller, refresh fan-out, control operations.
//   - snapshot.go: immutable Snapshot aggregate and structural equality.
//   - state.go: tri-state State (pending / ready / failed).
//   - store.go: observable store (Current, Subscribe, publish, Close).
//   - errors.go: closed-controller error and predicate.
//   - metrics.go: Prometheus counters and histograms.
//
// External packages should treat the Controller as the orchestration layer
// and use its public methods only (New, Refresh, SwitchActiveModel,
// LoadLocalModel, UnloadLocalModel, Current, Subscribe, Close).
package dashboard
