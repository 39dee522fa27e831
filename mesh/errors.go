package mesh

import (
	"errors"
	"fmt"
)

// Sentinel conditions distinct from format errors.
var (
	// ErrClosed is returned by any operation on a closed reader or writer.
	ErrClosed = errors.New("mesh file is closed")

	// ErrNotFound is returned by lookups querying a valid mesh with an
	// unknown node ID, element ID or node string name.
	ErrNotFound = errors.New("not found")

	// ErrRange is returned by range iteration with out-of-bounds or
	// inverted start/end arguments.
	ErrRange = errors.New("iteration range out of bounds")
)

// ReadError reports a file-level structural failure, such as a missing
// MESH2D marker. It aborts opening the file.
type ReadError struct {
	File string
	Msg  string
}

func (e *ReadError) Error() string {
	if e.File == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// FormatError reports a record violating field count or value range rules.
// Line is 1-based; Raw holds the offending line text when available.
type FormatError struct {
	File string
	Line int
	Raw  string
	Msg  string
}

func (e *FormatError) Error() string {
	s := e.Msg
	if e.File != "" || e.Line > 0 {
		s = fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	if e.Raw != "" {
		s += fmt.Sprintf(" (in %q)", e.Raw)
	}
	return s
}

// CardError reports a record whose tag does not match the expected card, or
// a node count mismatch for an element type. It is kept distinct from
// FormatError so callers can tell "wrong card" from "right card, bad data".
type CardError struct {
	Card string
	File string
	Line int
	Raw  string
	Msg  string
}

func (e *CardError) Error() string {
	s := e.Msg
	if e.File != "" || e.Line > 0 {
		s = fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	if e.Card != "" {
		s = fmt.Sprintf("%s [card %s]", s, e.Card)
	}
	return s
}

// WriteError reports a writer-side sequencing violation, such as a header
// written twice or entity kinds interleaved across flushes.
type WriteError struct {
	Msg string
}

func (e *WriteError) Error() string { return e.Msg }
