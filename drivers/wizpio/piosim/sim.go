// Package piosim is a host-side model of the piocore contracts. It keeps the
// resource accounting of the real hardware (instruction memory, execution
// units, DMA channels) and records every observable bus action so tests can
// assert on chip-select edges and transfer shapes without an MCU.
package piosim

import (
	"sync"
	"time"

	"wizpio-go/drivers/wizpio/piocore"
)

// Options sizes the simulated chip. Zero fields take RP2040 values.
type Options struct {
	Blocks        int
	InstrWords    int
	UnitsPerBlock int
	DMAChannels   int
}

func (o *Options) defaults() {
	if o.Blocks <= 0 {
		o.Blocks = 2
	}
	if o.InstrWords <= 0 || o.InstrWords > 32 {
		o.InstrWords = 32
	}
	if o.UnitsPerBlock <= 0 {
		o.UnitsPerBlock = 4
	}
	if o.DMAChannels <= 0 {
		o.DMAChannels = 12
	}
}

// ---- Event log ----

type EventKind uint8

const (
	EvPin        EventKind = iota // SIO output level written
	EvTransfer                    // unit disabled after moving data
	EvStallClear                  // TX stall flag cleared
	EvEnable                      // unit enabled
	EvBarrier
	EvDelay // busy-wait, Ns set
	EvSleep // scheduler sleep, Dur set
)

type Event struct {
	Kind     EventKind
	Pin      int
	High     bool
	Transfer *Transfer
	Ns       uint32
	Dur      time.Duration
}

// Transfer is one enabled period of a unit that moved data.
type Transfer struct {
	Block, Unit int
	TX          []byte // bytes delivered to the TX FIFO
	RX          []byte // bytes delivered from the RX FIFO
	X, Y        uint32
	WrapBottom  uint8
	WrapTop     uint8
	PC          uint8
}

// ---- Hardware ----

// Hardware implements piocore.Hardware.
type Hardware struct {
	mu     sync.Mutex
	blocks []*Block
	dma    *DMA
	pins   *Pins
	events []Event

	// Peer answers reads. It sees the bytes written in the current transfer
	// and fills rx. Nil leaves rx zeroed.
	Peer func(tx, rx []byte)
	// NeverStall keeps the TX stall flag low (wedged sequencer).
	NeverStall bool
	// DMAHangs keeps every channel busy (lost DREQ).
	DMAHangs bool
}

var _ piocore.Hardware = (*Hardware)(nil)

// New builds a simulator sized by opts.
func New(opts Options) *Hardware {
	opts.defaults()
	h := &Hardware{}
	for i := 0; i < opts.Blocks; i++ {
		b := &Block{hw: h, idx: i, words: opts.InstrWords}
		for u := 0; u < opts.UnitsPerBlock; u++ {
			b.units = append(b.units, &Unit{blk: b, idx: u})
		}
		h.blocks = append(h.blocks, b)
	}
	h.dma = &DMA{hw: h}
	for i := 0; i < opts.DMAChannels; i++ {
		h.dma.ch = append(h.dma.ch, &Channel{hw: h, idx: i})
	}
	h.pins = &Pins{hw: h, st: make(map[int]*PinState)}
	return h
}

func (h *Hardware) Blocks() []piocore.Sequencer {
	out := make([]piocore.Sequencer, len(h.blocks))
	for i, b := range h.blocks {
		out[i] = b
	}
	return out
}

func (h *Hardware) DMA() piocore.DMAAllocator { return h.dma }
func (h *Hardware) Pins() piocore.Pins        { return h.pins }

func (h *Hardware) Sleep(d time.Duration) { h.record(Event{Kind: EvSleep, Dur: d}) }
func (h *Hardware) DelayNs(ns uint32)     { h.record(Event{Kind: EvDelay, Ns: ns}) }
func (h *Hardware) Barrier()              { h.record(Event{Kind: EvBarrier}) }

func (h *Hardware) record(ev Event) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

// ---- Test accessors ----

// Block returns the simulated block i.
func (h *Hardware) Block(i int) *Block { return h.blocks[i] }

// Events returns a copy of the event log.
func (h *Hardware) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

// Transfers returns the recorded transfers in order.
func (h *Hardware) Transfers() []Transfer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Transfer
	for _, ev := range h.events {
		if ev.Kind == EvTransfer {
			out = append(out, *ev.Transfer)
		}
	}
	return out
}

// PinEdges returns the levels written to pin, in order.
func (h *Hardware) PinEdges(pin int) []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []bool
	for _, ev := range h.events {
		if ev.Kind == EvPin && ev.Pin == pin {
			out = append(out, ev.High)
		}
	}
	return out
}

// ClearEvents drops the event log.
func (h *Hardware) ClearEvents() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

// Pin returns a snapshot of pin n's pad state.
func (h *Hardware) Pin(n int) PinState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.pins.st[n]; ok {
		return *st
	}
	return PinState{}
}

// ClaimedChannels counts claimed DMA channels.
func (h *Hardware) ClaimedChannels() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.dma.ch {
		if c.claimed {
			n++
		}
	}
	return n
}

// ClaimedUnits counts claimed units across all blocks.
func (h *Hardware) ClaimedUnits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, b := range h.blocks {
		for _, u := range b.units {
			if u.claimed {
				n++
			}
		}
	}
	return n
}
