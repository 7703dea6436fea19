// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

const (
	// NanogrinPerGrincent is the number of nanogrin in one grin-cent.
	NanogrinPerGrincent = 1e7

	// NanogrinPerGrin is the number of nanogrin in one grin.
	NanogrinPerGrin = 1e9

	// MaxNanogrin is the maximum transaction amount representable, bounding
	// `Amount` well above any plausible emission so overflow checks on
	// commitment values have headroom.
	MaxNanogrin = 5e9 * NanogrinPerGrin
)
