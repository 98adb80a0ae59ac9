//go:build rp2040

package platform

import (
	"unsafe"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
)

type rp2DMA struct {
	hw      *rp2Hardware
	claimed uint16 // guarded by hw.mu
}

func (d *rp2DMA) Claim() (piocore.DMAChannel, error) {
	d.hw.mu.Lock()
	defer d.hw.mu.Unlock()
	for i := 0; i < dmaChannels; i++ {
		if d.claimed&(1<<i) == 0 {
			d.claimed |= 1 << i
			return &rp2Channel{dma: d, idx: i}, nil
		}
	}
	return nil, errcode.NoDMA
}

type rp2Channel struct {
	dma *rp2DMA
	idx int
}

func (c *rp2Channel) Index() int { return c.idx }

func (c *rp2Channel) ch(off uintptr) uintptr {
	return dmaBase + dmaChStride*uintptr(c.idx) + off
}

func (c *rp2Channel) Unclaim() {
	c.Abort()
	c.dma.hw.mu.Lock()
	c.dma.claimed &^= 1 << c.idx
	c.dma.hw.mu.Unlock()
}

// Abort stops the channel. The abort bit reads back set until in-flight
// transfers have drained, which takes a few bus cycles.
func (c *rp2Channel) Abort() {
	r := reg(dmaBase + dmaABORT)
	r.Set(1 << c.idx)
	for i := 0; i < 1024 && r.Get()&(1<<c.idx) != 0; i++ {
	}
}

func (c *rp2Channel) start(read, write uintptr, n int, ctrl uint32) {
	reg(c.ch(dmaREAD)).Set(uint32(read))
	reg(c.ch(dmaWRITE)).Set(uint32(write))
	reg(c.ch(dmaCOUNT)).Set(uint32(n))
	// Chaining to itself disables chaining. Byte transfers.
	reg(c.ch(dmaCTRL)).Set(ctrl | dmaEN | uint32(c.idx)<<dmaChainTo)
}

func (c *rp2Channel) Push(u piocore.Unit, src []byte) {
	if len(src) == 0 {
		return
	}
	ru := u.(*rp2Unit)
	c.start(uintptr(unsafe.Pointer(&src[0])), ru.txf(), len(src),
		dmaIncrRead|ru.dreq(false)<<dmaTReq)
}

func (c *rp2Channel) Pull(u piocore.Unit, dst []byte) {
	if len(dst) == 0 {
		return
	}
	ru := u.(*rp2Unit)
	c.start(ru.rxf(), uintptr(unsafe.Pointer(&dst[0])), len(dst),
		dmaIncrWrite|ru.dreq(true)<<dmaTReq)
}

func (c *rp2Channel) Busy() bool { return reg(c.ch(dmaCTRL)).Get()&dmaBusy != 0 }
