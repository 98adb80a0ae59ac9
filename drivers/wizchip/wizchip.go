// Package wizchip frames register accesses for WIZnet chips that take a
// 3-byte header (16-bit address, then a control byte) over a
// chip-select-delimited bus.
package wizchip

import (
	"wizpio-go/errcode"
	"wizpio-go/x/logx"
)

// Frame is the bus contract: a chip-select-delimited frame in which a
// 3-byte Write is held as the header for the next Read or Write.
// *wizpio.Session implements it.
type Frame interface {
	FrameStart()
	FrameEnd()
	Write(b []byte) error
	Read(b []byte) error
}

// Block is a block-select value.
type Block uint8

// Common is the common register block.
const Common Block = 0

// SocketReg is socket n's register block.
func SocketReg(n uint8) Block { return Block(n<<2 | 1) }

// SocketTX is socket n's transmit buffer.
func SocketTX(n uint8) Block { return Block(n<<2 | 2) }

// SocketRX is socket n's receive buffer.
func SocketRX(n uint8) Block { return Block(n<<2 | 3) }

const ctrlWrite = 1 << 2

// Header returns the frame header addressing addr in b. Operation mode
// bits are 00 (variable length, ended by chip select).
func Header(b Block, addr uint16, write bool) [3]byte {
	ctrl := byte(b) << 3
	if write {
		ctrl |= ctrlWrite
	}
	return [3]byte{byte(addr >> 8), byte(addr), ctrl}
}

// Chip issues framed accesses on a Frame.
type Chip struct {
	f Frame
}

// New wraps f.
func New(f Frame) *Chip { return &Chip{f: f} }

// Read fills buf from addr in block b.
func (c *Chip) Read(b Block, addr uint16, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	h := Header(b, addr, false)
	c.f.FrameStart()
	err := c.f.Write(h[:])
	if err == nil {
		err = c.f.Read(buf)
	}
	c.f.FrameEnd()
	return c.result("read", b, addr, err)
}

// Write stores data at addr in block b.
func (c *Chip) Write(b Block, addr uint16, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	h := Header(b, addr, true)
	c.f.FrameStart()
	err := c.f.Write(h[:])
	if err == nil {
		err = c.f.Write(data)
	}
	c.f.FrameEnd()
	return c.result("write", b, addr, err)
}

// ReadByte reads one register.
func (c *Chip) ReadByte(b Block, addr uint16) (byte, error) {
	var v [1]byte
	err := c.Read(b, addr, v[:])
	return v[0], err
}

// WriteByte writes one register.
func (c *Chip) WriteByte(b Block, addr uint16, v byte) error {
	return c.Write(b, addr, []byte{v})
}

func (c *Chip) result(op string, b Block, addr uint16, err error) error {
	if err == nil {
		return nil
	}
	logx.Debug(logx.ComponentChip, op+" failed", "block", uint8(b), "addr", addr, "err", err)
	return &errcode.E{C: errcode.Of(err), Op: "wizchip " + op, Err: err}
}
