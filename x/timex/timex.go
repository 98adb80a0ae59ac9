// Package timex converts between time and clock cycles for busy waits
// shorter than the scheduler tick.
package timex

import "wizpio-go/x/mathx"

// CyclesForNs returns the number of clock cycles at sysHz covering at least ns
// nanoseconds. The 2^16 pre-scale keeps the product inside 32 bits for any
// practical MCU clock.
func CyclesForNs(ns uint32, sysHz uint32) uint32 {
	return mathx.CeilDiv(ns*(sysHz>>16), 1_000_000_000>>16)
}
