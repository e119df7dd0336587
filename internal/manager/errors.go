package manager

import (
	"errors"
	"fmt"
)

// swapFailureError reports an adapter construction failure after the merge
// step already ran. The base model is left un-adapted; there is no rollback.
type swapFailureError struct {
	adapter string
	cause   error
}

func (e swapFailureError) Error() string {
	return fmt.Sprintf("adapter swap failed for '%s': %v", e.adapter, e.cause)
}

func (e swapFailureError) Unwrap() error { return e.cause }

// IsSwapFailure reports whether err indicates a failed adapter swap.
func IsSwapFailure(err error) bool {
	var sf swapFailureError
	return errors.As(err, &sf)
}

// notReadyError signals use of the handler before initialization completed.
// Recoverable: callers should retry once startup finishes.
type notReadyError struct{}

func (notReadyError) Error() string { return "model handler not initialized with model/tokenizer" }

// IsNotReady reports whether err indicates the handler is not initialized.
func IsNotReady(err error) bool {
	var nr notReadyError
	return errors.As(err, &nr)
}

// runtimeFailureError wraps a generation failure with its operating context
// (the mode or adapter name the request ran under).
type runtimeFailureError struct {
	context string
	cause   error
}

func (e runtimeFailureError) Error() string {
	return fmt.Sprintf("text generation failed (%s): %v", e.context, e.cause)
}

func (e runtimeFailureError) Unwrap() error { return e.cause }

// IsRuntimeFailure reports whether err indicates a generation failure.
func IsRuntimeFailure(err error) bool {
	var rf runtimeFailureError
	return errors.As(err, &rf)
}
