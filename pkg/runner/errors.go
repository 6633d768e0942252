package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTestKind is returned for test kind keys outside the supported set.
	ErrUnknownTestKind = errors.New("runner: unknown test kind")
	// ErrUnsupportedFile is returned when a file has no grammar for the kind.
	ErrUnsupportedFile = errors.New("runner: unsupported file")
	// ErrSpawn is returned when the native tool cannot be started.
	ErrSpawn = errors.New("runner: command spawn failed")
	// ErrAdapter is returned when the tool wrote only to stderr.
	ErrAdapter = errors.New("runner: adapter error")
	// ErrNoOutput is returned when the tool produced nothing to translate.
	ErrNoOutput = errors.New("runner: adapter produced no output")
)

// UnknownKindError carries the unrecognised test kind key.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown test kind: %s", e.Kind)
}

func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownTestKind
}

// SpawnError wraps a failure to start the native tool.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// AdapterError carries the stderr of a tool run that produced no usable
// stdout.
type AdapterError struct {
	Kind   Kind
	Stderr string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Kind, e.Stderr)
}

func (e *AdapterError) Is(target error) bool {
	return target == ErrAdapter
}

// FileError records a discovery failure for one file.
type FileError struct {
	// Err is the underlying error.
	Err error

	// Path is the file the error belongs to.
	Path string

	// Phase indicates where the error occurred.
	// Values: "language", "parsing"
	Phase string
}

// Error implements the error interface.
func (e FileError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}
