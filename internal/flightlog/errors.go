package flightlog

import (
	"errors"
	"fmt"
)

var (
	ErrShortRecord       = errors.New("record truncated")
	ErrBadTimestamp      = errors.New("cannot parse time stamp from file name")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrAtom1Unsupported  = errors.New("can't handle Atom1 log files yet")
)

// FieldError reports the field that made a record fail.
type FieldError struct {
	Field  string
	Offset int
	Raw    []byte
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Scope is the extent of processing a fatal error aborts.
type Scope uint8

const (
	ScopeFile Scope = iota + 1
	ScopeRun
)

func (s Scope) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeRun:
		return "run"
	default:
		return fmt.Sprintf("scope(%d)", uint8(s))
	}
}

// FatalError stops the current file (ScopeFile) or the whole invocation
// (ScopeRun). Record is the zero-based record index, or -1 when the failure
// is not tied to a record.
type FatalError struct {
	Scope  Scope
	File   string
	Record int
	Err    error
}

func (e *FatalError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("%s: record %d: %v", e.File, e.Record, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func fileFatal(file string, err error) *FatalError {
	return &FatalError{Scope: ScopeFile, File: file, Record: -1, Err: err}
}

func runFatal(file string, err error) *FatalError {
	return &FatalError{Scope: ScopeRun, File: file, Record: -1, Err: err}
}

// IsRunFatal reports whether err must abort the remaining files.
func IsRunFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe) && fe.Scope == ScopeRun
}
