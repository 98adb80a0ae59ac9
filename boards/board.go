// Package boards describes how WIZnet Ethernet modules are wired to the
// RP2040. One descriptor is compiled in as Selected, chosen by build tag.
package boards

import (
	"periph.io/x/conn/v3/physic"

	"wizpio-go/drivers/wizpio"
)

// Framing is how the chip expects register accesses to be framed.
type Framing uint8

const (
	// FramingHeader: 3-byte address/control header, then data.
	FramingHeader Framing = iota
	// FramingCommand: lane-packed opcode and address, then data.
	FramingCommand
)

func (f Framing) String() string {
	if f == FramingCommand {
		return "command"
	}
	return "header"
}

// Probe is one identification register read at bring-up. Block is used
// with header framing, Op with command framing.
type Probe struct {
	Block uint8
	Op    byte
	Addr  uint16
	Want  byte
}

// Board describes one module. Pins are RP2040 GPIO numbers.
type Board struct {
	Name string
	Chip string

	Width      wizpio.Width
	Clock, CS  int
	Data       []int
	Reset, IRQ int
	SCK        physic.Frequency

	PreferredBlock int
	Framing        Framing
	Probe          Probe
}

// Config turns the board wiring into a transport config for a system clock
// of sys.
func (b *Board) Config(sys physic.Frequency) wizpio.Config {
	return wizpio.Config{
		Width:          b.Width,
		Clock:          b.Clock,
		CS:             b.CS,
		Data:           append([]int(nil), b.Data...),
		Reset:          b.Reset,
		IRQ:            b.IRQ,
		Div:            wizpio.DividerFor(sys, b.SCK),
		PreferredBlock: b.PreferredBlock,
	}
}

// W55RP20 is the RP2040 + W5500 system-in-package. The Ethernet core sits
// on internal GPIO 20..25.
var W55RP20 = Board{
	Name:           "w55rp20",
	Chip:           "W5500",
	Width:          wizpio.Single,
	Clock:          21,
	CS:             20,
	Data:           []int{23, 22},
	Reset:          25,
	IRQ:            24,
	SCK:            31250 * physic.KiloHertz,
	PreferredBlock: 1,
	Framing:        FramingHeader,
	Probe:          Probe{Block: 0, Addr: 0x0039, Want: 0x04},
}

// W6300EVB is the W6300 evaluation board for Pico, in quad mode.
var W6300EVB = Board{
	Name:           "w6300_evb_pico",
	Chip:           "W6300",
	Width:          wizpio.Quad,
	Clock:          17,
	CS:             16,
	Data:           []int{18, 19, 20, 21},
	Reset:          22,
	IRQ:            15,
	SCK:            31250 * physic.KiloHertz,
	PreferredBlock: 1,
	Framing:        FramingCommand,
	Probe:          Probe{Op: 0x80, Addr: 0x0000, Want: 0x63},
}

// All lists the known boards.
var All = []*Board{&W55RP20, &W6300EVB}

// ByName finds a board.
func ByName(name string) (*Board, bool) {
	for _, b := range All {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}
