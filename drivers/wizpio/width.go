package wizpio

// Width is the number of data lines clocked in parallel.
type Width uint8

const (
	Single Width = 1
	Dual   Width = 2
	Quad   Width = 4
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool { return w == Single || w == Dual || w == Quad }

// Lanes returns the number of bits moved per clock.
func (w Width) Lanes() uint8 { return uint8(w) }

// ClocksPerByte returns the clock cycles needed to shift one byte.
func (w Width) ClocksPerByte() uint32 { return 8 / uint32(w) }

// DataPins returns how many data pins a Config must list for w. Single
// width uses a separate out and in line.
func (w Width) DataPins() int {
	if w == Single {
		return 2
	}
	return int(w)
}

func (w Width) String() string {
	switch w {
	case Single:
		return "single"
	case Dual:
		return "dual"
	case Quad:
		return "quad"
	default:
		return "invalid"
	}
}
