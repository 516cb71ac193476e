package util

import (
	"errors"
	"io/fs"
)

// Error kinds returned by the config and artifact helpers. Use errors.Is to
// test for them; the underlying cause is kept in the chain as well.
var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyDocument   = errors.New("document is empty")
	ErrParse           = errors.New("parse error")
	ErrSerialization   = errors.New("serialization error")
	ErrDeserialization = errors.New("deserialization error")
	ErrFilesystem      = errors.New("filesystem error")
)

// OpError records a failed operation on a path.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FileError classifies an error coming from the os package: a missing path
// becomes ErrNotFound, anything else ErrFilesystem.
func FileError(op, path string, err error) error {
	kind := ErrFilesystem
	if errors.Is(err, fs.ErrNotExist) {
		kind = ErrNotFound
	}
	return &OpError{Op: op, Path: path, Kind: kind, Err: err}
}

// WithPath fills in the path of an *OpError that was built without one.
func WithPath(err error, path string) error {
	var opErr *OpError
	if errors.As(err, &opErr) && opErr.Path == "" {
		opErr.Path = path
	}
	return err
}
