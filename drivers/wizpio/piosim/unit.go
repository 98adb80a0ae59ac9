package piosim

import "wizpio-go/drivers/wizpio/piocore"

// Unit is a simulated execution unit. Data moves when the unit is enabled:
// pending outbound DMA completes at once and a pending inbound DMA is
// answered by Hardware.Peer.
type Unit struct {
	blk     *Block
	idx     int
	claimed bool

	cfg     piocore.UnitConfig
	pc      uint8
	enabled bool
	fifo    uint32
	x, y    uint32
	dirs    uint32

	tx      []byte
	rx      []byte
	outs    []*Channel
	in      *Channel
	inDst   []byte
	execLog []uint16
}

var _ piocore.Unit = (*Unit)(nil)

func (u *Unit) Index() int               { return u.idx }
func (u *Unit) Block() piocore.Sequencer { return u.blk }

func (u *Unit) lock()   { u.blk.hw.mu.Lock() }
func (u *Unit) unlock() { u.blk.hw.mu.Unlock() }

func (u *Unit) Unclaim() {
	u.lock()
	u.claimed = false
	u.enabled = false
	u.unlock()
}

func (u *Unit) Configure(cfg piocore.UnitConfig, initialPC uint8) {
	u.lock()
	u.cfg = cfg
	u.pc = initialPC
	u.unlock()
}

func (u *Unit) SetEnabled(on bool) {
	u.lock()
	defer u.unlock()
	h := u.blk.hw
	if on {
		if !u.enabled {
			h.events = append(h.events, Event{Kind: EvEnable})
		}
		u.enabled = true
		u.serviceLocked()
		return
	}
	if u.enabled && (len(u.tx) > 0 || len(u.rx) > 0) {
		tr := &Transfer{
			Block:      u.blk.idx,
			Unit:       u.idx,
			TX:         u.tx,
			RX:         u.rx,
			X:          u.x,
			Y:          u.y,
			WrapBottom: u.cfg.WrapBottom,
			WrapTop:    u.cfg.WrapTop,
			PC:         u.pc,
		}
		h.events = append(h.events, Event{Kind: EvTransfer, Transfer: tr})
		u.tx, u.rx = nil, nil
	}
	u.enabled = false
}

func (u *Unit) SetWrap(bottom, top uint8) {
	u.lock()
	u.cfg.WrapBottom, u.cfg.WrapTop = bottom, top
	u.unlock()
}

func (u *Unit) ClearFIFOs() {
	u.lock()
	u.tx, u.rx = nil, nil
	u.unlock()
}

func (u *Unit) Restart()       {}
func (u *Unit) ClkDivRestart() {}

func (u *Unit) Put(v uint32) {
	u.lock()
	u.fifo = v
	u.unlock()
}

func (u *Unit) Exec(instr uint16) {
	u.lock()
	defer u.unlock()
	u.execLog = append(u.execLog, instr)
	if d, ok := piocore.OutDest(instr); ok {
		switch d {
		case piocore.DestX:
			u.x = u.fifo
		case piocore.DestY:
			u.y = u.fifo
		}
		return
	}
	if addr, ok := piocore.JmpTarget(instr); ok {
		u.pc = addr
	}
}

func (u *Unit) SetPinDirs(mask, dirs uint32) {
	u.lock()
	u.dirs = u.dirs&^mask | dirs&mask
	u.unlock()
}

func (u *Unit) ClearTxStall() {
	u.lock()
	h := u.blk.hw
	h.events = append(h.events, Event{Kind: EvStallClear})
	u.unlock()
}

func (u *Unit) TxStalled() bool {
	u.lock()
	defer u.unlock()
	return u.enabled && len(u.outs) == 0 && !u.blk.hw.NeverStall
}

// caller holds lock
func (u *Unit) serviceLocked() {
	if !u.enabled {
		return
	}
	for _, c := range u.outs {
		c.busy = false
	}
	u.outs = nil
	if u.in != nil {
		if p := u.blk.hw.Peer; p != nil {
			p(append([]byte(nil), u.tx...), u.inDst)
		}
		u.rx = append(u.rx, u.inDst...)
		u.in.busy = false
		u.in, u.inDst = nil, nil
	}
}

// ---- Test accessors ----

// Config returns the last configuration written.
func (u *Unit) Config() piocore.UnitConfig {
	u.lock()
	defer u.unlock()
	return u.cfg
}

// PinDirs returns the direction bitmap driven by the unit.
func (u *Unit) PinDirs() uint32 {
	u.lock()
	defer u.unlock()
	return u.dirs
}

// Enabled reports whether the unit is running.
func (u *Unit) Enabled() bool {
	u.lock()
	defer u.unlock()
	return u.enabled
}

// Claimed reports whether the unit is claimed.
func (u *Unit) Claimed() bool {
	u.lock()
	defer u.unlock()
	return u.claimed
}

// Executed returns the instructions run through Exec.
func (u *Unit) Executed() []uint16 {
	u.lock()
	defer u.unlock()
	return append([]uint16(nil), u.execLog...)
}
