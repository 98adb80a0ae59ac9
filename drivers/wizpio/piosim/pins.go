package piosim

import "wizpio-go/drivers/wizpio/piocore"

// PinState is the simulated pad and SIO state of one GPIO.
type PinState struct {
	Inited     bool
	Out        bool
	High       bool
	PullUp     bool
	PullDown   bool
	Hysteresis bool
	Fn         piocore.Func
	Drive      piocore.Drive
	FastSlew   bool
}

// Pins implements piocore.Pins.
type Pins struct {
	hw *Hardware
	st map[int]*PinState
}

var _ piocore.Pins = (*Pins)(nil)

// caller holds lock
func (p *Pins) get(n int) *PinState {
	s, ok := p.st[n]
	if !ok {
		s = &PinState{Fn: piocore.FuncNull}
		p.st[n] = s
	}
	return s
}

func (p *Pins) Init(pin int) {
	p.hw.mu.Lock()
	defer p.hw.mu.Unlock()
	s := p.get(pin)
	*s = PinState{Inited: true, Fn: piocore.FuncSIO, Drive: s.Drive}
}

func (p *Pins) SetDir(pin int, out bool) {
	p.hw.mu.Lock()
	p.get(pin).Out = out
	p.hw.mu.Unlock()
}

func (p *Pins) Put(pin int, high bool) {
	p.hw.mu.Lock()
	defer p.hw.mu.Unlock()
	p.get(pin).High = high
	p.hw.events = append(p.hw.events, Event{Kind: EvPin, Pin: pin, High: high})
}

func (p *Pins) Get(pin int) bool {
	p.hw.mu.Lock()
	defer p.hw.mu.Unlock()
	return p.get(pin).High
}

func (p *Pins) SetPulls(pin int, up, down bool) {
	p.hw.mu.Lock()
	s := p.get(pin)
	s.PullUp, s.PullDown = up, down
	p.hw.mu.Unlock()
}

func (p *Pins) SetHysteresis(pin int, on bool) {
	p.hw.mu.Lock()
	p.get(pin).Hysteresis = on
	p.hw.mu.Unlock()
}

func (p *Pins) SetFunction(pin int, fn piocore.Func) {
	p.hw.mu.Lock()
	p.get(pin).Fn = fn
	p.hw.mu.Unlock()
}

func (p *Pins) SetDrive(pin int, d piocore.Drive, fastSlew bool) {
	p.hw.mu.Lock()
	s := p.get(pin)
	s.Drive, s.FastSlew = d, fastSlew
	p.hw.mu.Unlock()
}
