package wizpio

import (
	pc "wizpio-go/drivers/wizpio/piocore"
)

// Layout locates the entry points of a transfer program relative to its
// load offset.
type Layout struct {
	WriteBits uint8 // start of the write loop
	WriteEnd  uint8 // turnaround: data lines back to input
	ReadEnd   uint8 // one past the read loop
}

// TransferProgram returns the sequencer program for w and its layout.
//
// The clock is the single mandatory side-set pin. X holds the number of
// write clocks minus one and Y the number of bytes to read minus one; the
// engine loads both before jumping to WriteBits. A write-only transfer
// wraps inside the write loop and stalls when the TX FIFO runs dry.
//
//	write_bits: out  pins, n      side 0
//	            jmp  x-- write_bits side 1
//	write_end:  set  pindirs, 0   side 0
//	read_byte:  set  x, 8/n-1     side 0
//	read_bit:   in   pins, n      side 1
//	            jmp  x-- read_bit side 0
//	            jmp  y-- read_byte side 0
//	read_end:
func TransferProgram(w Width) (*pc.Program, Layout) {
	n := w.Lanes()
	const (
		writeBits = 0
		writeEnd  = 2
		readByte  = 3
		readBit   = 4
		readEnd   = 7
	)
	p := &pc.Program{
		Origin: -1,
		Instructions: []uint16{
			pc.Side(pc.EncodeOut(pc.DestPins, n), 0),
			pc.Side(pc.EncodeJmp(pc.JmpXDec, writeBits), 1),
			pc.Side(pc.EncodeSet(pc.DestPindirs, 0), 0),
			pc.Side(pc.EncodeSet(pc.DestX, uint8(w.ClocksPerByte()-1)), 0),
			pc.Side(pc.EncodeIn(pc.SrcPins, n), 1),
			pc.Side(pc.EncodeJmp(pc.JmpXDec, readBit), 0),
			pc.Side(pc.EncodeJmp(pc.JmpYDec, readByte), 0),
		},
	}
	return p, Layout{WriteBits: writeBits, WriteEnd: writeEnd, ReadEnd: readEnd}
}
