package wizpio

import (
	"wizpio-go/errcode"
)

// HeaderLen is the size of a chip frame header (address and control).
const HeaderLen = 3

// Write sends b within the current frame. A 3-byte write with no header
// pending is kept back as the frame header: the following Read sends it
// and reads in one transaction, and the following Write sends it on its
// own first.
func (s *Session) Write(b []byte) error {
	s.check()
	sl := s.slot
	if len(b) == HeaderLen && !sl.hdrPending {
		copy(sl.hdr[:], b)
		sl.hdrPending = true
		return nil
	}
	if sl.hdrPending {
		sl.hdrPending = false
		if err := s.writeOnly("write header", sl.hdr[:]); err != nil {
			return err
		}
	}
	return s.writeOnly("write", b)
}

// Read fills b within the current frame, after sending the pending
// header. Reading with no header pending is refused without touching the
// bus or b.
func (s *Session) Read(b []byte) error {
	s.check()
	sl := s.slot
	if !sl.hdrPending {
		return errcode.Wrap(errcode.NoHeader, "read", nil)
	}
	sl.hdrPending = false
	return s.transact("read", sl.hdr[:], b)
}

// ReadByte reads one byte within the current frame.
func (s *Session) ReadByte() (byte, error) {
	var b [1]byte
	err := s.Read(b[:])
	return b[0], err
}

// HeaderPending reports whether a header is staged.
func (s *Session) HeaderPending() bool {
	s.check()
	return s.slot.hdrPending
}
