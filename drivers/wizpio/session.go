package wizpio

import (
	"wizpio-go/x/logx"
)

// Hold time after chip select rises before the interrupt line may be
// sampled.
const irqSampleDelayNs = 100

// Session is the right to drive the bus of one open transport. At most one
// Session per Pool is valid at a time; Select and Deselect invalidate the
// previous one. A Session must be used from one goroutine.
//
// Using a Session after it was invalidated, or after its transport was
// closed, is a programming error and panics.
type Session struct {
	p     *Pool
	slot  *slot
	c     *claim
	cfg   *Config
	idx   int
	valid bool
}

// Select makes t the active transport and returns its Session. It panics
// if t is not open or belongs to another pool.
func (p *Pool) Select(t *Transport) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t == nil || t.p != p {
		panic("wizpio: select of foreign transport")
	}
	s := t.slotLocked()
	if s == nil {
		panic("wizpio: select of closed transport")
	}
	if p.active != nil {
		p.active.valid = false
	}
	ss := &Session{p: p, slot: s, c: s.c, cfg: &s.cfg, idx: t.idx, valid: true}
	p.active = ss
	logx.Debug(logx.ComponentPool, "select", "slot", t.idx)
	return ss
}

// Deselect invalidates the active Session, if any.
func (p *Pool) Deselect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.valid = false
		p.active = nil
	}
}

// Active returns the valid Session, or nil.
func (p *Pool) Active() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Valid reports whether s may still be used.
func (s *Session) Valid() bool { return s != nil && s.valid }

// Width returns the transfer width of the selected transport.
func (s *Session) Width() Width {
	s.check()
	return s.cfg.Width
}

func (s *Session) check() {
	if !s.Valid() {
		panic("wizpio: session used after deselect or close")
	}
}

// FrameStart hands the bus lines back to the sequencer and asserts chip
// select. Another driver may have borrowed the pins since the last frame.
func (s *Session) FrameStart() {
	s.check()
	pins := s.p.hw.Pins()
	fn := s.c.block.Func()
	for _, d := range s.cfg.lanes() {
		pins.SetFunction(d, fn)
	}
	pins.SetFunction(s.cfg.Clock, fn)
	pins.SetPulls(s.cfg.Clock, false, true)
	pins.Put(s.cfg.CS, false)
}

// FrameEnd releases chip select and waits out the interrupt hold time.
func (s *Session) FrameEnd() {
	s.check()
	s.p.hw.Pins().Put(s.cfg.CS, true)
	s.p.hw.DelayNs(irqSampleDelayNs)
}
