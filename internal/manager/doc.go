// Package manager provides adapter-swap and generation coordination for the
// single shared base model. It is structured into small files by concern:
//
//   - adapters.go: AdapterManager and the merge-and-reload swap protocol.
//   - handler.go: ModelHandler facade and the process-wide generation lock.
//   - config.go: HandlerConfig and package defaults.
//   - errors.go: error types and helpers (IsSwapFailure, IsNotReady, IsRuntimeFailure).
//   - metrics.go: Prometheus counters for swaps and generation latency.
//
// Locking: ModelHandler holds the generation lock for the full span of every
// generation, including the adapter swap that may precede it. AdapterManager
// acquires its own swap lock only inside that span, so all generation and
// swap operations are totally ordered: one at a time, process-wide.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (NewAdapterManager, NewHandler, GenerateBase,
// GenerateWithAdapter, Current). Internal types are subject to change.
package manager
