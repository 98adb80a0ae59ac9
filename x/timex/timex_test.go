package timex

import "testing"

func TestCyclesForNs(t *testing.T) {
	// 100 ns at 125 MHz is 12.5 cycles; never round below the interval.
	if got := CyclesForNs(100, 125_000_000); got < 12 || got > 13 {
		t.Fatalf("CyclesForNs(100, 125MHz) = %d", got)
	}
	if got := CyclesForNs(0, 125_000_000); got != 0 {
		t.Fatalf("CyclesForNs(0) = %d", got)
	}
}
