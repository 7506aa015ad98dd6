// Package engine defines the narrow contract the gateway consumes a model
// runtime through, and the classified outcomes a generation can produce.
//
// An Engine wraps exactly one loaded model. The gateway never looks inside:
// tokenization, batching, and accelerator scheduling are the engine's
// problem. Engines must be safe for concurrent Generate calls.
package engine

import (
	"context"

	"modelgw/pkg/types"
)

// Engine is an opaque handle to one loaded model.
type Engine interface {
	// Describe returns immutable metadata about the served model. It is
	// cheap enough to double as a liveness probe.
	Describe(ctx context.Context) (types.ModelConfig, error)
	// Generate runs one completion. The returned Result is always one of
	// ErrorResult, CompleteResult, or StreamResult; err is reserved for
	// failures the engine could not classify itself.
	Generate(ctx context.Context, req types.ChatRequest) (Result, error)
	// Close releases resources associated with the engine.
	Close() error
}

// Result is the classified outcome of a generation. The three
// implementations below are the only ones; consumers type-switch
// exhaustively.
type Result interface {
	isResult()
}

// ErrorResult carries a structured backend failure. Code and Message are the
// backend's own and are passed through to the caller verbatim.
type ErrorResult struct {
	Code    int
	Message string
}

// CompleteResult wraps the single completion document of a non-streaming
// generation.
type CompleteResult struct {
	Response types.ChatResponse
}

// StreamResult wraps the lazy chunk sequence of a streaming generation.
type StreamResult struct {
	Stream Stream
}

func (ErrorResult) isResult()    {}
func (CompleteResult) isResult() {}
func (StreamResult) isResult()   {}

// Stream is a pull-based, non-restartable sequence of completion chunks.
// Recv returns io.EOF once the engine has produced its last chunk; any other
// error means the sequence failed mid-generation and will produce nothing
// further. Close must be called when the consumer abandons the stream so the
// engine can release whatever backs it.
type Stream interface {
	Recv() (types.ChatChunk, error)
	Close() error
}
