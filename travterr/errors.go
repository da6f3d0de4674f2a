// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package travterr holds the error kinds surfaced across travt
package travterr

import (
	"github.com/cpmech/gosl/chk"
)

// Kind identifies one of the error kinds from the design
type Kind int

const (
	// BadDepth: depth outside [0, MAX_DEPTH]; propagated from newSession
	BadDepth Kind = iota

	// TauIntegral: integrand sign inconsistent with the model; indicates
	// model corruption. Propagated.
	TauIntegral

	// DepthOutOfRange: internal to the Earth-model layer; reported as
	// BadDepth at the API boundary.
	DepthOutOfRange

	// PhaseNotFound: internal; recovered locally, never surfaced.
	PhaseNotFound
)

func (k Kind) String() string {
	switch k {
	case BadDepth:
		return "BadDepth"
	case TauIntegral:
		return "TauIntegral"
	case DepthOutOfRange:
		return "DepthOutOfRange"
	case PhaseNotFound:
		return "PhaseNotFound"
	}
	return "Unknown"
}

// Error wraps a Kind with a formatted message, built with chk.Err
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New builds an *Error the way chk.Err builds formatted errors
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: chk.Err(format, args...).Error()}
}

// Is reports whether err is a travterr.Error of the given kind
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}

// AsBadDepth converts a DepthOutOfRange error raised in emodel into the
// BadDepth kind surfaced at the session API boundary
func AsBadDepth(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && e.Kind == DepthOutOfRange {
		return New(BadDepth, "%s", e.Msg)
	}
	return err
}
