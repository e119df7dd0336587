package registry

import (
	"errors"
	"fmt"
)

// NotFoundReason distinguishes the two validation stages of Resolve.
type NotFoundReason string

const (
	// ReasonDirectoryMissing means the adapter directory itself is absent.
	ReasonDirectoryMissing NotFoundReason = "directory"
	// ReasonArtifactMissing means the directory exists but lacks the weight artifact.
	ReasonArtifactMissing NotFoundReason = "artifact"
)

// notFoundError reports a missing adapter or adapter artifact.
type notFoundError struct {
	name   string
	path   string
	reason NotFoundReason
}

func (e notFoundError) Error() string {
	if e.reason == ReasonArtifactMissing {
		return fmt.Sprintf("adapter '%s': %s not found in %s", e.name, ArtifactName, e.path)
	}
	return fmt.Sprintf("adapter '%s' not found at %s", e.name, e.path)
}

// IsNotFound reports whether err indicates a missing adapter (return 404).
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// Reason returns the validation stage a NotFound error failed at, or "" when
// err is not a NotFound error.
func Reason(err error) NotFoundReason {
	var nf notFoundError
	if errors.As(err, &nf) {
		return nf.reason
	}
	return ""
}

// configurationError signals a bad registry root at startup. Fatal: callers
// are expected to abort initialization.
type configurationError struct{ msg string }

func (e configurationError) Error() string { return e.msg }

// ErrConfiguration constructs a configurationError.
func ErrConfiguration(msg string) error { return configurationError{msg: msg} }

// IsConfiguration reports whether err is a startup configuration error.
func IsConfiguration(err error) bool {
	var ce configurationError
	return errors.As(err, &ce)
}
