// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

// Package validation implements spec §4.4: pure, side-effect-free checks
// over a transaction body or full block, reading no state beyond what the
// caller passes in (a TxHashSet snapshot, a BlockSums pair).
package validation

import "errors"

// Kind identifies one of the ValidationError sub-kinds spec §9 enumerates.
type Kind string

// Validation error kinds, per spec §9.
const (
	TooHeavy            Kind = "TooHeavy"
	Unsorted            Kind = "Unsorted"
	SelfSpend           Kind = "SelfSpend"
	BadRangeProof       Kind = "BadRangeProof"
	BadKernelSig        Kind = "BadKernelSig"
	KernelSumMismatch   Kind = "KernelSumMismatch"
	InvalidFeatures     Kind = "InvalidFeatures"
	LockHeightViolation Kind = "LockHeightViolation"
	OffsetMismatch      Kind = "OffsetMismatch"
	DuplicateCommitment Kind = "DuplicateCommitment"
	UnknownCommitment   Kind = "UnknownCommitment"
)

// Error is a typed validation failure: a Kind plus a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "validation: " + string(e.Kind)
	}
	return "validation: " + string(e.Kind) + ": " + e.Detail
}

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, validation.ErrKind(TooHeavy)).
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
