package main

import (
	"log/slog"
	"time"

	"wizpio-go/boards"
	"wizpio-go/drivers/wizchip"
	"wizpio-go/drivers/wizpio"
	"wizpio-go/drivers/wizpio/platform"
	"wizpio-go/errcode"
	"wizpio-go/x/logx"
)

const heartbeatEvery = time.Second

func main() {
	// Allow the console to come up before we print.
	time.Sleep(2 * time.Second)
	logx.SetOutput(console())
	logx.SetLevel(slog.LevelInfo)

	b := boards.Selected
	logx.Info(logx.ComponentBoard, "boot", "board", b.Name, "chip", b.Chip,
		"width", b.Width.String(), "framing", b.Framing.String())

	pool := wizpio.NewPool(platform.DefaultHardware(), wizpio.Options{})
	tr, err := pool.Open(b.Config(platform.SystemClock()))
	if err != nil {
		logx.Error(logx.ComponentBoard, "transport open failed", "err", err)
		halt()
	}
	if err := tr.Reset(); err != nil && errcode.Of(err) != errcode.Unsupported {
		logx.Warn(logx.ComponentBoard, "reset failed", "err", err)
	}
	s := pool.Select(tr)

	tick := time.NewTicker(heartbeatEvery)
	defer tick.Stop()
	for range tick.C {
		heartbeat(tr, s, b)
	}
}

// heartbeat re-reads the identification register and reports line state.
func heartbeat(tr *wizpio.Transport, s *wizpio.Session, b *boards.Board) {
	v, err := probe(s, b)
	irq, _ := tr.IRQ()
	switch {
	case err != nil:
		logx.Warn(logx.ComponentBoard, "probe failed", "err", err)
	case v != b.Probe.Want:
		logx.Warn(logx.ComponentBoard, "unexpected chip id", "got", v, "want", b.Probe.Want)
	default:
		logx.Info(logx.ComponentBoard, "heartbeat", "id", v, "irq", irq)
	}
}

// probe reads the board's identification register using its framing.
func probe(s *wizpio.Session, b *boards.Board) (byte, error) {
	if b.Framing == boards.FramingCommand {
		var v [1]byte
		err := s.ReadCommand(b.Probe.Op, b.Probe.Addr, v[:])
		return v[0], err
	}
	return wizchip.New(s).ReadByte(wizchip.Block(b.Probe.Block), b.Probe.Addr)
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
