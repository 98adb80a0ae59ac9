package mathx

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{11, 1, 10, 10},
		{11, 10, 1, 10}, // swapped bounds
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d,%d,%d)=%d want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestIntDiv(t *testing.T) {
	if got := CeilDiv[uint32](7, 2); got != 4 {
		t.Fatalf("CeilDiv=%d", got)
	}
	if got := CeilDiv[uint32](7, 0); got != 0 {
		t.Fatalf("CeilDiv by zero=%d", got)
	}
}
