package wizpio

import (
	"periph.io/x/conn/v3/physic"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
	"wizpio-go/x/mathx"
)

// NoPin marks an optional line as absent.
const NoPin = -1

// Highest user GPIO on RP2040.
const maxPin = 29

// ClockDiv is the execution unit clock divider (integer + 1/256 fraction).
type ClockDiv = piocore.ClockDiv

// Config describes the wiring of one transport. It is copied at Open and
// never modified afterwards.
//
// Data lists the data lines: for Single it is {out, in}; for Dual and Quad
// it is IO0..IO(n-1) and the pins must be consecutive.
type Config struct {
	Width Width
	Clock int
	CS    int
	Data  []int
	Reset int // NoPin if absent
	IRQ   int // NoPin if absent

	Div            ClockDiv
	PreferredBlock int
}

// Validate checks c against a chip with nblocks sequencer blocks.
func (c *Config) Validate(nblocks int) error {
	const op = "config"
	if !c.Width.Valid() {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "width"}
	}
	if len(c.Data) != c.Width.DataPins() {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "data pin count"}
	}
	if c.Width != Single {
		for i, p := range c.Data {
			if p != c.Data[0]+i {
				return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "data pins not consecutive"}
			}
		}
	}
	if c.Div.Int == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "clock divider"}
	}
	if c.PreferredBlock < 0 || c.PreferredBlock >= nblocks {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "preferred block"}
	}

	seen := make(map[int]bool, 8)
	for _, p := range c.pins() {
		if p < 0 || p > maxPin {
			return &errcode.E{C: errcode.UnknownPin, Op: op}
		}
		if seen[p] {
			return &errcode.E{C: errcode.PinInUse, Op: op}
		}
		seen[p] = true
	}
	return nil
}

// pins lists every line in use, optional ones only when present.
func (c *Config) pins() []int {
	out := append([]int{c.Clock, c.CS}, c.Data...)
	if c.Reset != NoPin {
		out = append(out, c.Reset)
	}
	if c.IRQ != NoPin {
		out = append(out, c.IRQ)
	}
	return out
}

func (c *Config) dataOut() int { return c.Data[0] }

func (c *Config) dataIn() int {
	if c.Width == Single {
		return c.Data[1]
	}
	return c.Data[0]
}

// lanes are the pins the unit drives while writing.
func (c *Config) lanes() []int {
	if c.Width == Single {
		return c.Data[:1]
	}
	return c.Data
}

func (c *Config) laneMask() uint32 {
	var m uint32
	for _, p := range c.lanes() {
		m |= 1 << p
	}
	return m
}

func (c *Config) dataMask() uint32 {
	var m uint32
	for _, p := range c.Data {
		m |= 1 << p
	}
	return m
}

// DividerFor returns the divider giving a bus clock of at most sck from a
// system clock sys. Every bit takes two sequencer cycles.
func DividerFor(sys, sck physic.Frequency) ClockDiv {
	const minDiv, maxDiv = 1 << 8, 0xFFFF<<8 | 0xFF
	s := uint64(sys / physic.Hertz)
	k := uint64(sck / physic.Hertz)
	if k == 0 {
		return ClockDiv{Int: 0xFFFF, Frac: 0xFF}
	}
	d := mathx.Clamp(mathx.CeilDiv(s<<8, 2*k), minDiv, maxDiv)
	return ClockDiv{Int: uint16(d >> 8), Frac: uint8(d)}
}
