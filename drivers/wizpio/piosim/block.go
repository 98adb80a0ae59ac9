package piosim

import (
	"math/bits"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
)

// Block is a simulated sequencer block.
type Block struct {
	hw    *Hardware
	idx   int
	words int
	used  uint32 // instruction slot bitmap
	mem   [32]uint16
	units []*Unit
}

var _ piocore.Sequencer = (*Block)(nil)

func (b *Block) Index() int         { return b.idx }
func (b *Block) Func() piocore.Func { return piocore.FuncPIO0 + piocore.Func(b.idx) }

// caller holds lock
func (b *Block) findOffset(p *piocore.Program) (uint8, bool) {
	n := p.Len()
	if n == 0 || n > b.words {
		return 0, false
	}
	mask := uint32(1)<<n - 1
	if p.Origin >= 0 {
		off := int(p.Origin)
		if off+n > b.words || b.used&(mask<<off) != 0 {
			return 0, false
		}
		return uint8(off), true
	}
	// Highest free window first, like the SDK allocator.
	for off := b.words - n; off >= 0; off-- {
		if b.used&(mask<<off) == 0 {
			return uint8(off), true
		}
	}
	return 0, false
}

func (b *Block) CanAddProgram(p *piocore.Program) bool {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	_, ok := b.findOffset(p)
	return ok
}

func (b *Block) AddProgram(p *piocore.Program) (uint8, error) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	off, ok := b.findOffset(p)
	if !ok {
		return 0, errcode.NoProgramSpace
	}
	for i, in := range p.Instructions {
		b.mem[int(off)+i] = piocore.Relocate(in, off)
	}
	b.used |= (uint32(1)<<p.Len() - 1) << off
	return off, nil
}

func (b *Block) RemoveProgram(p *piocore.Program, offset uint8) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	b.used &^= (uint32(1)<<p.Len() - 1) << offset
}

func (b *Block) ClaimUnit() (piocore.Unit, error) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	for _, u := range b.units {
		if !u.claimed {
			u.claimed = true
			return u, nil
		}
	}
	return nil, errcode.NoUnit
}

// ---- Test helpers ----

// FreeWords reports unused instruction slots.
func (b *Block) FreeWords() int {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	return b.words - bits.OnesCount32(b.used)
}

// Reserve marks n instruction slots from the top of memory as used by some
// other program.
func (b *Block) Reserve(n int) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	for i := b.words - 1; i >= 0 && n > 0; i-- {
		if b.used&(1<<i) == 0 {
			b.used |= 1 << i
			n--
		}
	}
}

// ReserveUnits claims n units on behalf of some other driver.
func (b *Block) ReserveUnits(n int) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	for _, u := range b.units {
		if n == 0 {
			return
		}
		if !u.claimed {
			u.claimed = true
			n--
		}
	}
}

// Instruction returns the loaded instruction at addr.
func (b *Block) Instruction(addr uint8) uint16 {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	return b.mem[addr&31]
}

// Unit returns simulated unit i.
func (b *Block) Unit(i int) *Unit { return b.units[i] }
