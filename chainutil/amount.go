// Copyright (c) 2013, 2014 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AmountUnit describes a method of converting an Amount to something other
// than the base unit (nanogrin). The value of the AmountUnit is the
// exponent component of the decadic multiple to convert from an amount in
// grin to an amount counted in units.
type AmountUnit int

// These constants define various units used when describing a grin
// monetary amount.
const (
	AmountMegaGrin  AmountUnit = 6
	AmountKiloGrin  AmountUnit = 3
	AmountGrin      AmountUnit = 0
	AmountMilliGrin AmountUnit = -3
	AmountMicroGrin AmountUnit = -6
	AmountNanogrin  AmountUnit = -9
)

// String returns the unit as a string. For recognized units, the SI prefix
// is used, or "ngrin" for the base unit. For all unrecognized units,
// "1eN grin" is returned, where N is the AmountUnit.
func (u AmountUnit) String() string {
	switch u {
	case AmountMegaGrin:
		return "Mgrin"
	case AmountKiloGrin:
		return "kgrin"
	case AmountGrin:
		return "grin"
	case AmountMilliGrin:
		return "mgrin"
	case AmountMicroGrin:
		return "μgrin"
	case AmountNanogrin:
		return "ngrin"
	default:
		return "1e" + strconv.FormatInt(int64(u), 10) + " grin"
	}
}

// Amount represents the base grin monetary unit (a nanogrin). A single
// Amount is equal to 1e-9 of a grin.
type Amount int64

// round converts a floating point number, which may or may not be
// representable as an integer, to the Amount integer type by rounding to
// the nearest integer.
func round(f float64) Amount {
	if f < 0 {
		return Amount(f - 0.5)
	}
	return Amount(f + 0.5)
}

// NewAmount creates an Amount from a floating point value representing some
// value in grin. NewAmount errors if f is NaN or +-Infinity, but does not
// check that the amount is within the total amount of grin producible, as f
// may not refer to an amount at a single moment in time.
func NewAmount(f float64) (Amount, error) {
	switch {
	case math.IsNaN(f):
		fallthrough
	case math.IsInf(f, 1):
		fallthrough
	case math.IsInf(f, -1):
		return 0, errors.New("invalid grin amount")
	}

	return round(f * NanogrinPerGrin), nil
}

// ToUnit converts a monetary amount counted in nanogrin to a floating point
// value representing an amount of grin.
func (a Amount) ToUnit(u AmountUnit) float64 {
	return float64(a) / math.Pow10(int(u+9))
}

// ToGrin is the equivalent of calling ToUnit with AmountGrin.
func (a Amount) ToGrin() float64 {
	return a.ToUnit(AmountGrin)
}

// Format formats a monetary amount counted in nanogrin as a string for a
// given unit. The conversion succeeds for any unit, but known units are
// formatted with an appended SI-notation label, or "ngrin" for the base
// unit.
func (a Amount) Format(u AmountUnit) string {
	units := " " + u.String()
	formatted := strconv.FormatFloat(a.ToUnit(u), 'f', -int(u+9), 64)

	if u == AmountGrin {
		if strings.Contains(formatted, ".") {
			return fmt.Sprintf("%.9f%s", a.ToUnit(u), units)
		}
	}
	return formatted + units
}

// String is the equivalent of calling Format with AmountGrin.
func (a Amount) String() string {
	return a.Format(AmountGrin)
}

// MulF64 multiplies an Amount by a floating point value. Useful for fee
// calculations expressed as a percentage or rate of a base amount.
func (a Amount) MulF64(f float64) Amount {
	return round(float64(a) * f)
}
