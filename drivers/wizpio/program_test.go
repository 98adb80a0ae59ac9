package wizpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferProgram(t *testing.T) {
	cases := []struct {
		w    Width
		want []uint16
	}{
		{Single, []uint16{0x6001, 0x1040, 0xE080, 0xE027, 0x5001, 0x0044, 0x0083}},
		{Dual, []uint16{0x6002, 0x1040, 0xE080, 0xE023, 0x5002, 0x0044, 0x0083}},
		{Quad, []uint16{0x6004, 0x1040, 0xE080, 0xE021, 0x5004, 0x0044, 0x0083}},
	}
	for _, c := range cases {
		p, l := TransferProgram(c.w)
		assert.Equal(t, c.want, p.Instructions, c.w.String())
		assert.EqualValues(t, -1, p.Origin)
		assert.Equal(t, Layout{WriteBits: 0, WriteEnd: 2, ReadEnd: 7}, l)
	}
}
