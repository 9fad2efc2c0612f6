// Package format converts raw usage numbers into display strings.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Number rounds v to an integer and groups thousands: 1234567 → "1,234,567".
// Non-finite input renders as "0". Values beyond the int64 range keep every digit.
func Number(v float64) string {
	r := math.Round(finite(v))
	if r == 0 {
		return "0"
	}
	return humanize.Commaf(r)
}

// Int groups thousands of an integer count.
func Int(v int64) string {
	return humanize.Comma(v)
}

// NumberPtr is Number with nil treated as missing.
func NumberPtr(v *float64) string {
	if v == nil {
		return Number(0)
	}
	return Number(*v)
}

// Currency renders v as dollars with two decimals: 1234.5 → "$1234.50".
// Non-finite input renders as "$0.00".
func Currency(v float64) string {
	return "$" + fixed(v, 2)
}

// CurrencyPtr is Currency with nil treated as missing.
func CurrencyPtr(v *float64) string {
	if v == nil {
		return Currency(0)
	}
	return Currency(*v)
}

// CostPer1K renders a cost-per-1K-tokens value with six decimals so sub-cent
// prices stay visible: 0.0001234 → "$0.000123".
func CostPer1K(v float64) string {
	return "$" + fixed(v, 6)
}

// fixed renders v with the given number of decimals, rounding the exact
// binary value half away from zero: 0.125 → "0.13", where %f would give "0.12".
func fixed(v float64, decimals int) string {
	r := new(big.Rat).SetFloat64(finite(v))
	neg := r.Sign() < 0
	r.Abs(r)

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	digits := n.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	cut := len(digits) - decimals
	out := digits[:cut]
	if decimals > 0 {
		out += "." + digits[cut:]
	}
	if neg && n.Sign() != 0 {
		out = "-" + out
	}
	return out
}

// ModelLabel shortens "provider/model-name" to its final path segment.
// Names without a separator are returned unchanged.
func ModelLabel(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}

// Compact renders v in SI short form for chart axes: 1200 → "1.2k".
func Compact(v float64) string {
	v = finite(v)
	if math.Abs(v) < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
	value, prefix := humanize.ComputeSI(v)
	return fmt.Sprintf("%.1f%s", value, prefix)
}
