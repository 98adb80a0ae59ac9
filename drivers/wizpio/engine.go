package wizpio

import (
	pc "wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/errcode"
	"wizpio-go/x/logx"
	"wizpio-go/x/poll"
)

// transact runs one transaction: tx is written, then len(rx) bytes are
// read on the same lines. Reads always follow a write (header or command),
// so a read-only shape is refused.
func (s *Session) transact(op string, tx, rx []byte) error {
	switch {
	case len(rx) == 0:
		return s.writeOnly(op, tx)
	case len(tx) == 0:
		return errcode.Wrap(errcode.Unsupported, op, nil)
	default:
		return s.writeRead(op, tx, rx)
	}
}

// prepare stops the unit and loads the loop counters. X counts write
// clocks, Y counts read bytes.
func (s *Session) prepare(wrapTop uint8, x, y uint32) {
	c := s.c
	u := c.unit
	u.SetEnabled(false)
	u.SetWrap(c.offset+c.layout.WriteBits, c.offset+wrapTop-1)
	u.ClearFIFOs()
	lanes := s.cfg.laneMask()
	u.SetPinDirs(lanes, lanes)
	u.Restart()
	u.ClkDivRestart()
	u.Put(x)
	u.Exec(pc.EncodeOut(pc.DestX, 32))
	u.Put(y)
	u.Exec(pc.EncodeOut(pc.DestY, 32))
	u.Exec(pc.EncodeJmp(pc.JmpAlways, c.offset+c.layout.WriteBits))
}

// finish stops the unit and parks the lines: data lanes back to input and
// the out register drained onto the pins as zeros.
func (s *Session) finish() {
	u := s.c.unit
	u.SetEnabled(false)
	u.SetPinDirs(s.cfg.laneMask(), 0)
	u.Exec(pc.EncodeMov(pc.DestPins, pc.SrcNull))
}

// fail cleans up after a bounded wait expired.
func (s *Session) fail(op string, err error) error {
	s.c.out.Abort()
	s.c.in.Abort()
	s.finish()
	logx.Warn(logx.ComponentTransfer, "transfer timed out", "op", op, "slot", s.idx)
	return errcode.Wrap(errcode.Timeout, op, err)
}

// writeOnly streams segs back to back as one transaction. Completion is
// the unit stalling on an empty TX FIFO.
func (s *Session) writeOnly(op string, segs ...[]byte) error {
	total, last := 0, -1
	for i, seg := range segs {
		if len(seg) > 0 {
			total += len(seg)
			last = i
		}
	}
	if total == 0 {
		return nil
	}

	c := s.c
	u := c.unit
	s.prepare(c.layout.WriteEnd, uint32(total)*s.cfg.Width.ClocksPerByte()-1, 0)
	c.out.Abort()

	// Leading segments need the unit running to drain the FIFO.
	for _, seg := range segs[:last] {
		if len(seg) == 0 {
			continue
		}
		u.SetEnabled(true)
		c.out.Push(u, seg)
		if err := poll.Until(s.p.opts.DMATimeout, func() bool { return !c.out.Busy() }); err != nil {
			return s.fail(op, err)
		}
	}
	c.out.Push(u, segs[last])
	u.ClearTxStall()
	u.SetEnabled(true)

	if err := poll.Until(s.p.opts.StallTimeout, u.TxStalled); err != nil {
		return s.fail(op, err)
	}
	s.p.hw.Barrier()
	s.finish()
	return nil
}

// writeRead writes tx then reads into rx in one transaction. Completion is
// both DMA channels going idle.
func (s *Session) writeRead(op string, tx, rx []byte) error {
	c := s.c
	u := c.unit
	s.prepare(c.layout.ReadEnd, uint32(len(tx))*s.cfg.Width.ClocksPerByte()-1, uint32(len(rx))-1)
	c.out.Abort()
	c.in.Abort()
	c.out.Push(u, tx)
	c.in.Pull(u, rx)
	u.SetEnabled(true)
	s.p.hw.Barrier()

	err := poll.All(s.p.opts.DMATimeout,
		func() bool { return !c.out.Busy() },
		func() bool { return !c.in.Busy() })
	if err != nil {
		return s.fail(op, err)
	}
	s.p.hw.Barrier()
	s.finish()
	return nil
}
