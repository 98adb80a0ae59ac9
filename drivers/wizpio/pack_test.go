package wizpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackCommandVectors(t *testing.T) {
	cases := []struct {
		name string
		op   byte
		addr uint16
		w    Width
		want []byte
	}{
		{"single", 0x0F, 0x1234, Single, []byte{0x0F, 0x12, 0x34, 0}},
		{"dual zero", 0x00, 0x0000, Dual, []byte{0, 0, 0, 0, 0}},
		{"dual ones", 0xFF, 0x00FF, Dual, []byte{0x55, 0x55, 0x00, 0xFF, 0}},
		{"dual mixed", 0xA5, 0xBEEF, Dual, []byte{0x44, 0x11, 0xBE, 0xEF, 0}},
		{"quad zero", 0x00, 0x0001, Quad, []byte{0, 0, 0, 0, 0x00, 0x01, 0}},
		{"quad ones", 0xFF, 0xFFFF, Quad, []byte{0x11, 0x11, 0x11, 0x11, 0xFF, 0xFF, 0}},
		{"quad mixed", 0xA5, 0x8000, Quad, []byte{0x10, 0x10, 0x01, 0x01, 0x80, 0x00, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PackCommand(c.op, c.addr, c.w))
		})
	}
}

// io0 returns the bits seen on IO0 while b is shifted out MSB first on n
// lanes.
func io0(b []byte, n int) []byte {
	var out []byte
	for _, v := range b {
		for shift := 8 - n; shift >= 0; shift -= n {
			out = append(out, v>>shift&1)
		}
	}
	return out
}

func TestPackCommandOpcodeOnIO0(t *testing.T) {
	for _, w := range []Width{Dual, Quad} {
		nOp := 8 / int(w.ClocksPerByte())
		for op := 0; op < 256; op++ {
			got := io0(PackCommand(byte(op), 0, w)[:nOp], int(w))
			var want []byte
			for bit := 7; bit >= 0; bit-- {
				want = append(want, byte(op)>>bit&1)
			}
			if !assert.Equal(t, want, got, "%s op=%#02x", w, op) {
				return
			}
		}
	}
}

func TestAppendCommandReusesBuffer(t *testing.T) {
	var buf [MaxCommandLen]byte
	out := AppendCommand(buf[:0], 0x01, 0x0203, Quad)
	assert.Len(t, out, MaxCommandLen)
	assert.Same(t, &buf[0], &out[0])
}

func TestWidth(t *testing.T) {
	assert.EqualValues(t, 8, Single.ClocksPerByte())
	assert.EqualValues(t, 4, Dual.ClocksPerByte())
	assert.EqualValues(t, 2, Quad.ClocksPerByte())
	assert.Equal(t, 2, Single.DataPins())
	assert.Equal(t, 4, Quad.DataPins())
	assert.False(t, Width(3).Valid())
	assert.Equal(t, "invalid", Width(3).String())
}
