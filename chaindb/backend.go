// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC license that can be found
// in the LICENSE file.

package chaindb

import "github.com/grinpp-go/nodecore/txhashset"

// DB implements txhashset.Backend directly: the BLOCK_SUMS/OUTPUT_POS/
// SPENT_OUTPUTS column families (chainstate.go) plus the three MMR hash and
// data files (hashstore.go). A Block Processor wires chaindb.DB straight
// into txhashset.New wherever tests use txhashset.NewMemBackend.
var _ txhashset.Backend = (*DB)(nil)
