// Package wizpio drives WIZnet Ethernet chips over a programmable I/O
// sequencer and two DMA channels, using 1, 2 or 4 data lines.
//
// A Pool owns a fixed number of transport slots. Open claims a sequencer
// program slot, an execution unit and two DMA channels for one wiring;
// Select hands out the Session through which all bus traffic flows.
package wizpio

import (
	"sync"
	"time"

	pc "wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
	"wizpio-go/x/logx"
)

// DefaultCapacity is the slot count of a Pool built with zero Options.
const DefaultCapacity = 2

const (
	defaultStallTimeout = 50 * time.Millisecond
	defaultDMATimeout   = 50 * time.Millisecond

	resetLow  = 100 * time.Millisecond
	resetHigh = 100 * time.Millisecond
)

// Options tunes a Pool. Zero fields take defaults.
type Options struct {
	Capacity     int
	StallTimeout time.Duration // write-only completion
	DMATimeout   time.Duration // per DMA wait
}

func (o *Options) defaults() {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.StallTimeout <= 0 {
		o.StallTimeout = defaultStallTimeout
	}
	if o.DMATimeout <= 0 {
		o.DMATimeout = defaultDMATimeout
	}
}

// claim is everything an open transport holds. A slot is open iff its
// claim is non-nil, so a half-claimed slot cannot exist.
type claim struct {
	block  pc.Sequencer
	unit   pc.Unit
	prog   *pc.Program
	layout Layout
	offset uint8
	out    pc.DMAChannel
	in     pc.DMAChannel
}

type slot struct {
	cfg Config
	c   *claim
	gen uint32

	hdr        [HeaderLen]byte
	hdrPending bool
}

// Pool is a fixed set of transport slots over one Hardware.
type Pool struct {
	hw   pc.Hardware
	opts Options

	mu     sync.Mutex
	slots  []slot
	active *Session
}

// NewPool builds a pool over hw.
func NewPool(hw pc.Hardware, opts Options) *Pool {
	opts.defaults()
	return &Pool{hw: hw, opts: opts, slots: make([]slot, opts.Capacity)}
}

// Transport is a handle to an open slot. Handles are invalidated by Close;
// a stale handle never touches a slot that has since been reopened.
type Transport struct {
	p   *Pool
	idx int
	gen uint32
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Capacity int
	Open     int
}

// Stats reports how many slots are open.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := Stats{Capacity: len(p.slots)}
	for i := range p.slots {
		if p.slots[i].c != nil {
			st.Open++
		}
	}
	return st
}

// Open claims hardware for cfg. Either every resource is claimed or none
// is.
func (p *Pool) Open(cfg Config) (*Transport, error) {
	const op = "open"
	blocks := p.hw.Blocks()
	if err := cfg.Validate(len(blocks)); err != nil {
		return nil, err
	}
	cfg.Data = append([]int(nil), cfg.Data...)

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i := range p.slots {
		if p.slots[i].c == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, p.openFailed(errcode.Wrap(errcode.NoInstance, op, nil))
	}

	p.initPins(&cfg)

	prog, layout := TransferProgram(cfg.Width)
	blk := pickBlock(blocks, cfg.PreferredBlock, prog)
	if blk == nil {
		return nil, p.openFailed(errcode.Wrap(errcode.NoProgramSpace, op, nil))
	}
	off, err := blk.AddProgram(prog)
	if err != nil {
		return nil, p.openFailed(errcode.Wrap(errcode.NoProgramSpace, op, err))
	}
	unit, err := blk.ClaimUnit()
	if err != nil {
		blk.RemoveProgram(prog, off)
		return nil, p.openFailed(errcode.Wrap(errcode.NoUnit, op, err))
	}
	out, err := p.hw.DMA().Claim()
	if err != nil {
		unit.Unclaim()
		blk.RemoveProgram(prog, off)
		return nil, p.openFailed(errcode.Wrap(errcode.NoDMA, op, err))
	}
	in, err := p.hw.DMA().Claim()
	if err != nil {
		out.Unclaim()
		unit.Unclaim()
		blk.RemoveProgram(prog, off)
		return nil, p.openFailed(errcode.Wrap(errcode.NoDMA, op, err))
	}

	c := &claim{block: blk, unit: unit, prog: prog, layout: layout, offset: off, out: out, in: in}
	p.initUnit(&cfg, c)

	s := &p.slots[idx]
	s.cfg = cfg
	s.c = c
	s.gen++
	s.hdrPending = false

	logx.Debug(logx.ComponentPool, "transport open",
		"slot", idx, "width", cfg.Width.String(),
		"block", blk.Index(), "unit", unit.Index(), "offset", off,
		"dma_out", out.Index(), "dma_in", in.Index())
	return &Transport{p: p, idx: idx, gen: s.gen}, nil
}

func (p *Pool) openFailed(err error) error {
	logx.Warn(logx.ComponentPool, "open failed", "err", err)
	return err
}

// pickBlock tries the preferred block first, then the rest in index order.
func pickBlock(blocks []pc.Sequencer, preferred int, prog *pc.Program) pc.Sequencer {
	if blocks[preferred].CanAddProgram(prog) {
		return blocks[preferred]
	}
	for i, b := range blocks {
		if i != preferred && b.CanAddProgram(prog) {
			return b
		}
	}
	return nil
}

// initPins puts every line in a known state before the sequencer takes
// over: chip select high, clock low, data lines pulled down with input
// hysteresis.
func (p *Pool) initPins(cfg *Config) {
	pins := p.hw.Pins()

	pins.Init(cfg.CS)
	pins.SetDir(cfg.CS, true)
	pins.Put(cfg.CS, true)

	pins.Init(cfg.Clock)
	pins.SetDir(cfg.Clock, true)
	pins.Put(cfg.Clock, false)

	for _, d := range cfg.Data {
		pins.Init(d)
		pins.SetPulls(d, false, true)
		pins.SetHysteresis(d, true)
	}
	if cfg.Reset != NoPin {
		pins.Init(cfg.Reset)
		pins.SetDir(cfg.Reset, true)
		pins.Put(cfg.Reset, true)
	}
	if cfg.IRQ != NoPin {
		pins.Init(cfg.IRQ)
		pins.SetPulls(cfg.IRQ, false, false)
	}
}

func (p *Pool) initUnit(cfg *Config, c *claim) {
	pins := p.hw.Pins()
	n := cfg.Width.Lanes()
	c.unit.Configure(pc.UnitConfig{
		Div:           cfg.Div,
		OutBase:       uint8(cfg.dataOut()),
		OutCount:      n,
		SetBase:       uint8(cfg.dataOut()),
		SetCount:      n,
		InBase:        uint8(cfg.dataIn()),
		SideSetBase:   uint8(cfg.Clock),
		SideSetCount:  1,
		WrapBottom:    c.offset + c.layout.WriteBits,
		WrapTop:       c.offset + c.layout.WriteEnd - 1,
		PullThreshold: 8,
		PushThreshold: 8,
		SyncBypass:    cfg.dataMask(),
	}, c.offset)

	pins.SetDrive(cfg.Clock, pc.Drive12mA, true)

	fn := c.block.Func()
	pins.SetFunction(cfg.Clock, fn)
	for _, d := range cfg.lanes() {
		pins.SetFunction(d, fn)
	}
	clk := uint32(1) << cfg.Clock
	c.unit.SetPinDirs(clk|cfg.laneMask(), clk)
	// Park the out line high and the clock low.
	c.unit.Exec(pc.Side(pc.EncodeSet(pc.DestPins, 1), 0))
}

// slotLocked returns t's slot while t is current, else nil.
func (t *Transport) slotLocked() *slot {
	if t == nil || t.p == nil {
		return nil
	}
	s := &t.p.slots[t.idx]
	if s.gen != t.gen || s.c == nil {
		return nil
	}
	return s
}

// Close releases everything Open claimed. Closing twice, or closing a
// handle whose slot has been reopened, does nothing.
func (t *Transport) Close() {
	if t == nil || t.p == nil {
		return
	}
	p := t.p
	p.mu.Lock()
	defer p.mu.Unlock()
	s := t.slotLocked()
	if s == nil {
		return
	}
	if p.active != nil && p.active.slot == s {
		p.active.valid = false
		p.active = nil
	}
	c := s.c
	c.unit.SetEnabled(false)
	c.out.Abort()
	c.in.Abort()
	c.out.Unclaim()
	c.in.Unclaim()
	c.unit.Unclaim()
	c.block.RemoveProgram(c.prog, c.offset)
	s.c = nil
	s.hdrPending = false
	logx.Debug(logx.ComponentPool, "transport closed", "slot", t.idx)
}

// IsOpen reports whether t still refers to an open slot.
func (t *Transport) IsOpen() bool {
	if t == nil || t.p == nil {
		return false
	}
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	return t.slotLocked() != nil
}

// Config returns a copy of the wiring t was opened with.
func (t *Transport) Config() (Config, bool) {
	if t == nil || t.p == nil {
		return Config{}, false
	}
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	s := t.slotLocked()
	if s == nil {
		return Config{}, false
	}
	cfg := s.cfg
	cfg.Data = append([]int(nil), s.cfg.Data...)
	return cfg, true
}

// Reset pulses the chip's reset line.
func (t *Transport) Reset() error {
	const op = "reset"
	cfg, ok := t.Config()
	if !ok {
		return errcode.Wrap(errcode.InvalidParams, op, nil)
	}
	if cfg.Reset == NoPin {
		return errcode.Wrap(errcode.Unsupported, op, nil)
	}
	hw := t.p.hw
	pins := hw.Pins()
	pins.SetDir(cfg.Reset, true)
	pins.Put(cfg.Reset, false)
	hw.Sleep(resetLow)
	pins.Put(cfg.Reset, true)
	hw.Sleep(resetHigh)
	return nil
}

// IRQ reports whether the chip's interrupt line is asserted (low).
func (t *Transport) IRQ() (bool, error) {
	cfg, ok := t.Config()
	if !ok {
		return false, errcode.Wrap(errcode.InvalidParams, "irq", nil)
	}
	if cfg.IRQ == NoPin {
		return false, errcode.Wrap(errcode.Unsupported, "irq", nil)
	}
	return !t.p.hw.Pins().Get(cfg.IRQ), nil
}
