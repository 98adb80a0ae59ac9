// Package piocore holds the hardware contracts the wizpio transport is
// written against: programmable I/O blocks and their execution units, DMA
// channels and GPIO pads. Platform code supplies the implementations; the
// transport itself never touches registers.
package piocore

import "time"

// ---- Pin function selectors (RP2040 IO_BANK0 FUNCSEL) ----

type Func uint8

const (
	FuncSPI  Func = 1
	FuncUART Func = 2
	FuncI2C  Func = 3
	FuncPWM  Func = 4
	FuncSIO  Func = 5
	FuncPIO0 Func = 6
	FuncPIO1 Func = 7
	FuncNull Func = 31
)

// Drive is a pad drive strength.
type Drive uint8

const (
	Drive2mA Drive = iota
	Drive4mA
	Drive8mA
	Drive12mA
)

// ---- Programs ----

// Program is a relocatable sequencer program. Jump targets are encoded
// relative to 0 and rebased on load.
type Program struct {
	Instructions []uint16
	Origin       int8 // -1 => any offset
}

// Len returns the number of instruction slots the program occupies.
func (p *Program) Len() int { return len(p.Instructions) }

// ---- Execution unit configuration ----

// ClockDiv is the 16.8 fixed point unit clock divider.
type ClockDiv struct {
	Int  uint16
	Frac uint8
}

// UnitConfig is the subset of execution unit state the transport programs.
type UnitConfig struct {
	Div ClockDiv

	OutBase, OutCount uint8
	SetBase, SetCount uint8
	InBase            uint8
	SideSetBase       uint8
	SideSetCount      uint8 // side-set is mandatory on every instruction

	WrapBottom, WrapTop uint8

	// Shift left (MSB first) with auto pull/push at the given thresholds.
	PullThreshold uint8
	PushThreshold uint8

	// Pins whose input synchroniser is bypassed for sampling.
	SyncBypass uint32
}

// ---- Contracts ----

// Sequencer is one programmable I/O block (instruction memory + units).
type Sequencer interface {
	Index() int
	Func() Func // GPIO function selecting this block on a pin

	CanAddProgram(p *Program) bool
	// AddProgram loads p and returns its base offset.
	AddProgram(p *Program) (uint8, error)
	RemoveProgram(p *Program, offset uint8)

	// ClaimUnit claims a free execution unit.
	ClaimUnit() (Unit, error)
}

// Unit is one execution unit (state machine) of a Sequencer.
type Unit interface {
	Index() int
	Block() Sequencer
	Unclaim()

	Configure(cfg UnitConfig, initialPC uint8)
	SetEnabled(on bool)
	SetWrap(bottom, top uint8)
	ClearFIFOs()
	Restart()
	ClkDivRestart()

	// Put blocks until the TX FIFO accepts v.
	Put(v uint32)
	// Exec runs one instruction immediately.
	Exec(instr uint16)
	// SetPinDirs sets the direction of the pins in mask from dirs (1 = out).
	SetPinDirs(mask, dirs uint32)

	// Sticky "stalled on empty TX FIFO" debug flag.
	ClearTxStall()
	TxStalled() bool
}

// DMAAllocator hands out DMA channels.
type DMAAllocator interface {
	Claim() (DMAChannel, error)
}

// DMAChannel is one claimed DMA channel moving bytes to or from a Unit,
// paced by the unit's FIFO requests.
type DMAChannel interface {
	Index() int
	Unclaim()
	Abort()

	// Push starts streaming src into u's TX FIFO.
	Push(u Unit, src []byte)
	// Pull starts streaming len(dst) bytes from u's RX FIFO into dst.
	Pull(u Unit, dst []byte)
	Busy() bool
}

// Pins configures GPIO pads and the SIO output path.
type Pins interface {
	Init(pin int) // SIO function, input, output latch low
	SetDir(pin int, out bool)
	Put(pin int, high bool)
	Get(pin int) bool
	SetPulls(pin int, up, down bool)
	SetHysteresis(pin int, on bool)
	SetFunction(pin int, fn Func)
	SetDrive(pin int, d Drive, fastSlew bool)
}

// Hardware bundles the facilities a transport claims from.
type Hardware interface {
	Blocks() []Sequencer
	DMA() DMAAllocator
	Pins() Pins

	Sleep(d time.Duration)
	// DelayNs busy-waits at least ns nanoseconds.
	DelayNs(ns uint32)
	// Barrier orders CPU memory accesses against DMA completion.
	Barrier()
}
