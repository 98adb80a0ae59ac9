package wizpio

// ReadCommand runs a complete frame: the packed opcode and address are
// written, then len(rx) bytes are read.
func (s *Session) ReadCommand(op byte, addr uint16, rx []byte) error {
	s.check()
	var buf [MaxCommandLen]byte
	cmd := AppendCommand(buf[:0], op, addr, s.cfg.Width)
	s.FrameStart()
	err := s.transact("read command", cmd, rx)
	s.FrameEnd()
	return err
}

// WriteCommand runs a complete frame: the packed opcode and address
// followed by tx, as one write.
func (s *Session) WriteCommand(op byte, addr uint16, tx []byte) error {
	s.check()
	var buf [MaxCommandLen]byte
	cmd := AppendCommand(buf[:0], op, addr, s.cfg.Width)
	s.FrameStart()
	err := s.writeOnly("write command", cmd, tx)
	s.FrameEnd()
	return err
}
