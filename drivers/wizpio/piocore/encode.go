package piocore

// Instruction encoders for the sequencer ISA. Each returns the 16-bit
// instruction with a zero delay/side-set field; use Side to add a side-set
// value when the program declares one mandatory side-set pin.

// ---- Operand selectors ----

type JmpCond uint16

const (
	JmpAlways JmpCond = iota
	JmpXZero
	JmpXDec
	JmpYZero
	JmpYDec
	JmpXNotY
	JmpPin
	JmpNotOSRE
)

type Src uint16

const (
	SrcPins   Src = 0
	SrcX      Src = 1
	SrcY      Src = 2
	SrcNull   Src = 3
	SrcStatus Src = 5
	SrcISR    Src = 6
	SrcOSR    Src = 7
)

type Dest uint16

const (
	DestPins    Dest = 0
	DestX       Dest = 1
	DestY       Dest = 2
	DestNull    Dest = 3
	DestPindirs Dest = 4
	DestPC      Dest = 5
	DestISR     Dest = 6
	DestExec    Dest = 7
)

const (
	opJmp  = 0x0000
	opIn   = 0x4000
	opOut  = 0x6000
	opMov  = 0xA000
	opSet  = 0xE000
	opMask = 0xE000
)

func bitCount(n uint8) uint16 { return uint16(n) & 0x1F } // 32 encodes as 0

func EncodeJmp(cond JmpCond, addr uint8) uint16 {
	return opJmp | uint16(cond)<<5 | uint16(addr)&0x1F
}

func EncodeIn(src Src, bits uint8) uint16 {
	return opIn | uint16(src)<<5 | bitCount(bits)
}

func EncodeOut(dst Dest, bits uint8) uint16 {
	return opOut | uint16(dst)<<5 | bitCount(bits)
}

// EncodeMov encodes a plain copy. MOV destinations share the OUT numbering
// except that index 4 is EXEC and 7 is OSR; only Pins, X and Y are used here.
func EncodeMov(dst Dest, src Src) uint16 {
	return opMov | uint16(dst)<<5 | uint16(src)
}

// EncodeSet accepts Pins, X, Y and Pindirs.
func EncodeSet(dst Dest, v uint8) uint16 {
	return opSet | uint16(dst)<<5 | uint16(v)&0x1F
}

// EncodeNop is "mov y, y".
func EncodeNop() uint16 { return EncodeMov(DestY, SrcY) }

// Side places a 1-bit mandatory side-set value in the delay field.
func Side(instr uint16, v uint8) uint16 { return instr | uint16(v&1)<<12 }

// ---- Decoding (used by the simulator and by relocation) ----

// IsJmp reports whether instr is a JMP.
func IsJmp(instr uint16) bool { return instr&opMask == opJmp }

// Relocate rebases a JMP target by offset; other instructions are returned
// unchanged.
func Relocate(instr uint16, offset uint8) uint16 {
	if !IsJmp(instr) {
		return instr
	}
	addr := (instr + uint16(offset)) & 0x1F
	return instr&^0x1F | addr
}

// OutDest returns the destination of an OUT instruction and whether instr
// is one.
func OutDest(instr uint16) (Dest, bool) {
	if instr&opMask != opOut {
		return 0, false
	}
	return Dest(instr>>5) & 7, true
}

// JmpTarget returns the target address of an unconditional JMP.
func JmpTarget(instr uint16) (uint8, bool) {
	if !IsJmp(instr) || JmpCond(instr>>5)&7 != JmpAlways {
		return 0, false
	}
	return uint8(instr & 0x1F), true
}
