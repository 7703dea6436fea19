// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package pow

import "errors"

// Kind identifies one of the PowError sub-kinds spec §9 enumerates: "bad
// proof, wrong difficulty, wrong scaling".
type Kind string

// PoW error kinds.
const (
	BadProof        Kind = "BadProof"
	WrongDifficulty Kind = "WrongDifficulty"
	WrongScaling    Kind = "WrongScaling"
)

// Error is a typed PoW-verification failure: a Kind plus a human-readable
// detail, mirroring package validation's Error shape.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "pow: " + string(e.Kind)
	}
	return "pow: " + string(e.Kind) + ": " + e.Detail
}

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, pow.ErrKind(BadProof)).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// ErrKind returns a sentinel *Error of the given kind, for use with
// errors.Is against a failure returned by this package.
func ErrKind(kind Kind) error {
	return &Error{Kind: kind}
}
