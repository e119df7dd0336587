// Package llm defines the boundary to the tensor runtime that executes model
// forward passes. The orchestration layers depend only on these interfaces;
// concrete backends live behind build tags (see llama.go / llama_stub.go).
package llm

import (
	"context"
	"errors"
)

// GenParams captures decoding parameters for a single generation call.
type GenParams struct {
	// Maximum number of new tokens to decode.
	MaxNewTokens int
	// Sampling temperature; ignored unless DoSample is set.
	Temperature float32
	// Nucleus sampling probability; ignored unless DoSample is set.
	TopP float32
	// DoSample enables sampling. When false the backend decodes greedily.
	DoSample bool
	// TruncateAt caps the tokenized prompt length before decoding.
	TruncateAt int
}

// Model is an opaque handle to a loaded model and its tokenizer.
//
// Generate runs one decode pass and returns the decoded text. Backends reuse
// the tokenizer's end-of-sequence token for padding and must not carry
// key-value cache state across calls: an adapter swap between calls would
// invalidate it. Handles are not safe for concurrent generation; callers
// serialize access.
type Model interface {
	Generate(ctx context.Context, prompt string, p GenParams) (string, error)
}

// AdapterModel wraps a base Model with a single low-rank adapter delta.
type AdapterModel interface {
	Model
	// Merge folds the adapter delta into the shared base weights and returns
	// the base handle. The wrapper must not be used afterwards. Handles to the
	// base held elsewhere remain valid: the fold happens in place.
	Merge() (Model, error)
	// SetInference switches the wrapper out of training mode.
	SetInference()
}

// Runtime loads models and adapter wrappers from disk.
type Runtime interface {
	// LoadModel loads the base model and its tokenizer from path.
	LoadModel(path string) (Model, error)
	// LoadAdapter constructs an adapter-augmented wrapper over base from the
	// weights at adapterPath. The base handle remains owned by the caller.
	LoadAdapter(base Model, adapterPath string) (AdapterModel, error)
}

// unavailableError signals that no real runtime was compiled into this binary
// so the HTTP layer can return 503 Service Unavailable instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing runtime backend.
func IsUnavailable(err error) bool {
	var ue unavailableError
	return errors.As(err, &ue)
}
