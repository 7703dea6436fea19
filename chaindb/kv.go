// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

// kv is the minimal get/put/delete/scan contract both DB (direct, immediate
// writes) and Batch (buffered, committed atomically) satisfy. Every
// higher-level accessor (headers, blocks, block sums, output positions,
// spent outputs, MMR hash/data stores) is written once against kv and works
// identically whether or not it is called inside an open batch, matching
// spec §4.1's "operations all take a Chain DB batch."
type kv interface {
	// get returns the value, whether it was found, and an error.
	get(key []byte) ([]byte, bool, error)
	put(key, value []byte) error
	del(key []byte) error
	// deleteAll removes every key sharing prefix.
	deleteAll(prefix []byte) error
	// scan calls fn for every (key, value) pair sharing prefix, stopping
	// early if fn returns false. DB visits keys in order; Batch visits the
	// stored keys in order and then its pending-only keys in no set order.
	scan(prefix []byte, fn func(key, value []byte) bool) error
}
