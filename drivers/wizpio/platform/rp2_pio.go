//go:build rp2040

package platform

import (
	"math/bits"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
)

// rp2Block is one PIO block. Allocation state is guarded by hw.mu.
type rp2Block struct {
	hw    *rp2Hardware
	idx   int
	base  uintptr
	used  uint32 // instruction memory bitmap
	units [pioUnits]rp2Unit
}

func (b *rp2Block) Index() int         { return b.idx }
func (b *rp2Block) Func() piocore.Func { return piocore.FuncPIO0 + piocore.Func(b.idx) }

func (b *rp2Block) findOffset(p *piocore.Program) (uint8, bool) {
	n := p.Len()
	if n == 0 || n > pioInstrWords {
		return 0, false
	}
	mask := uint32(1)<<n - 1
	if p.Origin >= 0 {
		off := int(p.Origin)
		if off+n > pioInstrWords || b.used&(mask<<off) != 0 {
			return 0, false
		}
		return uint8(off), true
	}
	for off := pioInstrWords - n; off >= 0; off-- {
		if b.used&(mask<<off) == 0 {
			return uint8(off), true
		}
	}
	return 0, false
}

func (b *rp2Block) CanAddProgram(p *piocore.Program) bool {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	_, ok := b.findOffset(p)
	return ok
}

func (b *rp2Block) AddProgram(p *piocore.Program) (uint8, error) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	off, ok := b.findOffset(p)
	if !ok {
		return 0, errcode.NoProgramSpace
	}
	for i, in := range p.Instructions {
		reg(b.base + pioINSTRMEM0 + 4*uintptr(int(off)+i)).Set(uint32(piocore.Relocate(in, off)))
	}
	b.used |= (uint32(1)<<p.Len() - 1) << off
	return off, nil
}

func (b *rp2Block) RemoveProgram(p *piocore.Program, offset uint8) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	b.used &^= (uint32(1)<<p.Len() - 1) << offset
}

func (b *rp2Block) ClaimUnit() (piocore.Unit, error) {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	for i := range b.units {
		u := &b.units[i]
		if !u.claimed {
			u.claimed = true
			return u, nil
		}
	}
	return nil, errcode.NoUnit
}

// rp2Unit is one state machine.
type rp2Unit struct {
	blk     *rp2Block
	idx     int
	claimed bool
}

func (u *rp2Unit) Index() int               { return u.idx }
func (u *rp2Unit) Block() piocore.Sequencer { return u.blk }

func (u *rp2Unit) Unclaim() {
	u.SetEnabled(false)
	u.blk.hw.mu.Lock()
	u.claimed = false
	u.blk.hw.mu.Unlock()
}

func (u *rp2Unit) sm(off uintptr) uintptr {
	return u.blk.base + pioSM0 + pioSMStride*uintptr(u.idx) + off
}

func (u *rp2Unit) Configure(cfg piocore.UnitConfig, initialPC uint8) {
	u.SetEnabled(false)
	reg(u.sm(smCLKDIV)).Set(uint32(cfg.Div.Int)<<16 | uint32(cfg.Div.Frac)<<8)
	u.SetWrap(cfg.WrapBottom, cfg.WrapTop)
	reg(u.sm(smSHIFTCTRL)).Set(shiftAutoPull | shiftAutoPush |
		uint32(cfg.PullThreshold&0x1f)<<shiftPullThresh |
		uint32(cfg.PushThreshold&0x1f)<<shiftPushThresh)
	reg(u.sm(smPINCTRL)).Set(uint32(cfg.OutBase)<<pinOutBase |
		uint32(cfg.OutCount)<<pinOutCount |
		uint32(cfg.SetBase)<<pinSetBase |
		uint32(cfg.SetCount)<<pinSetCount |
		uint32(cfg.InBase)<<pinInBase |
		uint32(cfg.SideSetBase)<<pinSideSetBase |
		uint32(cfg.SideSetCount)<<pinSideSetCount)
	setBits(u.blk.base+pioSYNCBYPASS, cfg.SyncBypass)

	u.ClearFIFOs()
	u.ClearTxStall()
	u.Restart()
	u.ClkDivRestart()
	u.Exec(piocore.EncodeJmp(piocore.JmpAlways, initialPC))
}

func (u *rp2Unit) SetEnabled(on bool) {
	bit := uint32(1) << (ctrlSMEnable + u.idx)
	if on {
		setBits(u.blk.base+pioCTRL, bit)
	} else {
		clrBits(u.blk.base+pioCTRL, bit)
	}
}

func (u *rp2Unit) SetWrap(bottom, top uint8) {
	r := reg(u.sm(smEXECCTRL))
	r.Set(r.Get()&^execWrapMask |
		uint32(top&0x1f)<<execWrapTop |
		uint32(bottom&0x1f)<<execWrapBottom)
}

// ClearFIFOs toggles the RX join bit twice, which flushes both FIFOs.
func (u *rp2Unit) ClearFIFOs() {
	r := reg(u.sm(smSHIFTCTRL))
	r.Set(r.Get() ^ shiftFJoinRX)
	r.Set(r.Get() ^ shiftFJoinRX)
}

func (u *rp2Unit) Restart() {
	setBits(u.blk.base+pioCTRL, 1<<(ctrlSMRestart+u.idx))
}

func (u *rp2Unit) ClkDivRestart() {
	setBits(u.blk.base+pioCTRL, 1<<(ctrlDivRestart+u.idx))
}

func (u *rp2Unit) Put(v uint32) {
	full := uint32(1) << (fstatTXFull + u.idx)
	for reg(u.blk.base+pioFSTAT).Get()&full != 0 {
	}
	reg(u.txf()).Set(v)
}

func (u *rp2Unit) txf() uintptr { return u.blk.base + pioTXF0 + 4*uintptr(u.idx) }
func (u *rp2Unit) rxf() uintptr { return u.blk.base + pioRXF0 + 4*uintptr(u.idx) }

func (u *rp2Unit) Exec(instr uint16) { reg(u.sm(smINSTR)).Set(uint32(instr)) }

// SetPinDirs runs "set pindirs" once per pin with PINCTRL temporarily
// pointing SET at that pin and side-set disabled.
func (u *rp2Unit) SetPinDirs(mask, dirs uint32) {
	pinctrl := reg(u.sm(smPINCTRL))
	execctrl := reg(u.sm(smEXECCTRL))
	savedPin, savedExec := pinctrl.Get(), execctrl.Get()
	execctrl.Set(savedExec &^ execOutSticky)
	for mask != 0 {
		pin := uint32(bits.TrailingZeros32(mask))
		pinctrl.Set(1<<pinSetCount | pin<<pinSetBase)
		u.Exec(piocore.EncodeSet(piocore.DestPindirs, uint8(dirs>>pin&1)))
		mask &^= 1 << pin
	}
	pinctrl.Set(savedPin)
	execctrl.Set(savedExec)
}

func (u *rp2Unit) ClearTxStall() {
	reg(u.blk.base + pioFDEBUG).Set(1 << (fdebugTXStall + u.idx))
}

func (u *rp2Unit) TxStalled() bool {
	return reg(u.blk.base+pioFDEBUG).Get()&(1<<(fdebugTXStall+u.idx)) != 0
}

// dreq returns the DMA request line pacing this unit's TX or RX FIFO.
func (u *rp2Unit) dreq(rx bool) uint32 {
	n := uint32(u.blk.idx*8 + u.idx)
	if rx {
		n += 4
	}
	return n
}
