package wizpio

import (
	"tinygo.org/x/drivers"

	"wizpio-go/errcode"
)

var _ drivers.SPI = (*Session)(nil)

// Tx writes w then reads r within the current frame. With a 3-byte w and
// a non-empty r this is one combined transaction. Chip select is left to
// the caller (FrameStart/FrameEnd).
func (s *Session) Tx(w, r []byte) error {
	s.check()
	if len(w) > 0 {
		if err := s.Write(w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		return s.Read(r)
	}
	return nil
}

// Transfer is not supported: a lone byte has no header to pair with.
func (s *Session) Transfer(b byte) (byte, error) {
	s.check()
	return 0, errcode.Wrap(errcode.Unsupported, "transfer", nil)
}
