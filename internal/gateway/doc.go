// Package gateway routes completion requests across a registry of
// independently loaded model engines. It is structured into small files by
// concern:
//
//   - gateway.go: core Gateway type, registry construction, simple getters.
//   - selector.go: the "current model" cell (Current/Switch).
//   - dispatch.go: request dispatch and outcome classification.
//   - health.go: per-model liveness probes.
//   - errors.go: error types and helpers (IsInvalidModel, IsConfiguration).
//
// The registry is immutable after construction; the selector is the only
// shared mutable state and every access goes through Current/Switch so the
// membership invariant cannot be bypassed. External packages should treat
// this package as the orchestration layer and use public methods only.
package gateway
