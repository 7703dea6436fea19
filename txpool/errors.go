// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package txpool

import "errors"

// AddStatus is the typed outcome of an add() call, per spec §4.7.
type AddStatus int

const (
	Added AddStatus = iota
	DuplicateTx
	LowFee
	TxInvalid
)

func (s AddStatus) String() string {
	switch s {
	case Added:
		return "ADDED"
	case DuplicateTx:
		return "DUPL_TX"
	case LowFee:
		return "LOW_FEE"
	case TxInvalid:
		return "TX_INVALID"
	default:
		return "UNKNOWN"
	}
}

var (
	errLowFee          = errors.New("txpool: fee below minimum relay fee")
	errLockHeight      = errors.New("txpool: kernel lock_height not yet reached")
	errUnknownInput    = errors.New("txpool: input does not spend a live unspent output")
	errDuplicateOutput = errors.New("txpool: output commitment already exists in the UTXO set")
)
