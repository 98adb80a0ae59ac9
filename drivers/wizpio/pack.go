package wizpio

// MaxCommandLen is the longest packed command prefix (Quad).
const MaxCommandLen = 7

// PackCommand lays out an opcode so that it is clocked out one bit per
// clock on IO0, MSB first, with the other lanes held low, then appends the
// 16-bit address and a dummy byte, which use all lanes.
//
//	Single: op, ah, al, 0
//	Dual:   two bytes of opcode, ah, al, 0
//	Quad:   four bytes of opcode, ah, al, 0
func PackCommand(op byte, addr uint16, w Width) []byte {
	return AppendCommand(make([]byte, 0, MaxCommandLen), op, addr, w)
}

// AppendCommand is PackCommand appending to dst.
func AppendCommand(dst []byte, op byte, addr uint16, w Width) []byte {
	switch w {
	case Dual:
		dst = append(dst, spread2(op>>4), spread2(op))
	case Quad:
		dst = append(dst,
			spread4(op>>6), spread4(op>>4),
			spread4(op>>2), spread4(op))
	default:
		dst = append(dst, op)
	}
	return append(dst, byte(addr>>8), byte(addr), 0)
}

// spread2 places the low 4 bits of v at bit positions 6, 4, 2, 0.
func spread2(v byte) byte {
	return (v>>3&1)<<6 | (v>>2&1)<<4 | (v>>1&1)<<2 | v&1
}

// spread4 places the low 2 bits of v at bit positions 4 and 0.
func spread4(v byte) byte {
	return (v>>1&1)<<4 | v&1
}
