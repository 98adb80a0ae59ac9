//go:build rp2040

package platform

import (
	"machine"
	"sync"
	"time"

	"device/arm"

	"periph.io/x/conn/v3/physic"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/x/timex"
)

var (
	hwOnce sync.Once
	hwInst *rp2Hardware
)

// DefaultHardware returns the chip's two PIO blocks, its DMA controller
// and GPIO bank. Every call returns the same instance.
func DefaultHardware() piocore.Hardware {
	hwOnce.Do(func() {
		h := &rp2Hardware{pins: rp2Pins{}}
		h.dma = &rp2DMA{hw: h}
		for i, base := range []uintptr{pio0Base, pio1Base} {
			b := &rp2Block{hw: h, idx: i, base: base}
			for u := range b.units {
				b.units[u] = rp2Unit{blk: b, idx: u}
			}
			h.blocks = append(h.blocks, b)
		}
		hwInst = h
	})
	return hwInst
}

// SystemClock reports the running CPU clock.
func SystemClock() physic.Frequency {
	return physic.Frequency(machine.CPUFrequency()) * physic.Hertz
}

type rp2Hardware struct {
	mu     sync.Mutex // allocation bitmaps
	blocks []*rp2Block
	dma    *rp2DMA
	pins   rp2Pins
}

func (h *rp2Hardware) Blocks() []piocore.Sequencer {
	out := make([]piocore.Sequencer, len(h.blocks))
	for i, b := range h.blocks {
		out[i] = b
	}
	return out
}

func (h *rp2Hardware) DMA() piocore.DMAAllocator { return h.dma }
func (h *rp2Hardware) Pins() piocore.Pins        { return h.pins }
func (h *rp2Hardware) Sleep(d time.Duration)     { time.Sleep(d) }

// DelayNs spins on nops; time.Now only has microsecond resolution here.
// Each loop pass takes at least three cycles.
func (h *rp2Hardware) DelayNs(ns uint32) {
	n := timex.CyclesForNs(ns, machine.CPUFrequency())/3 + 1
	for i := uint32(0); i < n; i++ {
		arm.Asm("nop")
	}
}

func (h *rp2Hardware) Barrier() { arm.Asm("dsb") }
