package piosim

import (
	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
)

// DMA is the simulated channel allocator.
type DMA struct {
	hw *Hardware
	ch []*Channel
}

var _ piocore.DMAAllocator = (*DMA)(nil)

func (d *DMA) Claim() (piocore.DMAChannel, error) {
	d.hw.mu.Lock()
	defer d.hw.mu.Unlock()
	for _, c := range d.ch {
		if !c.claimed {
			c.claimed = true
			return c, nil
		}
	}
	return nil, errcode.NoDMA
}

// Channel is a simulated DMA channel.
type Channel struct {
	hw      *Hardware
	idx     int
	claimed bool
	busy    bool
	unit    *Unit
	aborts  int
}

var _ piocore.DMAChannel = (*Channel)(nil)

func (c *Channel) Index() int { return c.idx }

func (c *Channel) Unclaim() {
	c.hw.mu.Lock()
	c.claimed = false
	c.busy = false
	c.hw.mu.Unlock()
}

func (c *Channel) Abort() {
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	c.aborts++
	c.busy = false
	if u := c.unit; u != nil {
		if u.in == c {
			u.in, u.inDst = nil, nil
		}
		for i, o := range u.outs {
			if o == c {
				u.outs = append(u.outs[:i], u.outs[i+1:]...)
				break
			}
		}
	}
}

func (c *Channel) Push(u piocore.Unit, src []byte) {
	su := u.(*Unit)
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	c.unit = su
	c.busy = true
	su.tx = append(su.tx, src...)
	su.outs = append(su.outs, c)
	su.serviceLocked()
}

func (c *Channel) Pull(u piocore.Unit, dst []byte) {
	su := u.(*Unit)
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	c.unit = su
	c.busy = true
	su.in, su.inDst = c, dst
	su.serviceLocked()
}

func (c *Channel) Busy() bool {
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	return c.busy || c.hw.DMAHangs
}

// Aborts counts Abort calls, for tests.
func (c *Channel) Aborts() int {
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	return c.aborts
}

// Claimed reports whether the channel is claimed.
func (c *Channel) Claimed() bool {
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()
	return c.claimed
}
