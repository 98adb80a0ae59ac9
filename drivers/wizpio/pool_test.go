package wizpio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pc "wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/drivers/wizpio/piosim"
	"wizpio-go/errcode"
)

// W55RP20 style wiring.
func singleConfig() Config {
	return Config{
		Width: Single,
		Clock: 21,
		CS:    20,
		Data:  []int{23, 22},
		Reset: 25,
		IRQ:   24,
		Div:   ClockDiv{Int: 2},
	}
}

// W6300-EVB style wiring.
func quadConfig() Config {
	return Config{
		Width: Quad,
		Clock: 17,
		CS:    16,
		Data:  []int{18, 19, 20, 21},
		Reset: 22,
		IRQ:   15,
		Div:   ClockDiv{Int: 2},
	}
}

func newPool(t *testing.T, sim piosim.Options, opts Options) (*Pool, *piosim.Hardware) {
	t.Helper()
	hw := piosim.New(sim)
	return NewPool(hw, opts), hw
}

func mustOpen(t *testing.T, p *Pool, cfg Config) *Transport {
	t.Helper()
	tr, err := p.Open(cfg)
	require.NoError(t, err)
	return tr
}

func TestOpenClaimsAndConfigures(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	tr := mustOpen(t, p, singleConfig())

	assert.Equal(t, Stats{Capacity: DefaultCapacity, Open: 1}, p.Stats())
	assert.Equal(t, 2, hw.ClaimedChannels())
	assert.Equal(t, 1, hw.ClaimedUnits())
	assert.Equal(t, 32-7, hw.Block(0).FreeWords())

	u := hw.Block(0).Unit(0)
	cfg := u.Config()
	const off = 32 - 7
	assert.EqualValues(t, 23, cfg.OutBase)
	assert.EqualValues(t, 1, cfg.OutCount)
	assert.EqualValues(t, 22, cfg.InBase)
	assert.EqualValues(t, 21, cfg.SideSetBase)
	assert.EqualValues(t, off, cfg.WrapBottom)
	assert.EqualValues(t, off+1, cfg.WrapTop)
	assert.EqualValues(t, 8, cfg.PullThreshold)
	assert.Equal(t, uint32(1<<23|1<<22), cfg.SyncBypass)
	assert.Equal(t, uint32(1<<21), u.PinDirs())

	clk := hw.Pin(21)
	assert.Equal(t, pc.FuncPIO0, clk.Fn)
	assert.Equal(t, pc.Drive12mA, clk.Drive)
	assert.True(t, clk.FastSlew)
	assert.Equal(t, pc.FuncPIO0, hw.Pin(23).Fn)
	assert.True(t, hw.Pin(22).PullDown)
	assert.True(t, hw.Pin(20).High, "chip select idles high")
	assert.True(t, tr.IsOpen())
}

func TestOpenFallsBackToOtherBlock(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	hw.Block(0).Reserve(30)

	mustOpen(t, p, quadConfig())
	assert.Equal(t, pc.FuncPIO1, hw.Pin(17).Fn)
	assert.True(t, hw.Block(1).Unit(0).Claimed())
}

func TestOpenPreferredBlock(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	cfg := quadConfig()
	cfg.PreferredBlock = 1
	mustOpen(t, p, cfg)
	assert.True(t, hw.Block(1).Unit(0).Claimed())
	assert.Equal(t, 32, hw.Block(0).FreeWords())
}

func TestOpenExhaustion(t *testing.T) {
	cases := []struct {
		name  string
		sim   piosim.Options
		setup func(*piosim.Hardware)
		want  errcode.Code
	}{
		{"program space", piosim.Options{}, func(h *piosim.Hardware) {
			h.Block(0).Reserve(30)
			h.Block(1).Reserve(30)
		}, errcode.NoProgramSpace},
		{"unit", piosim.Options{Blocks: 1}, func(h *piosim.Hardware) {
			h.Block(0).ReserveUnits(4)
		}, errcode.NoUnit},
		{"first channel", piosim.Options{Blocks: 1, DMAChannels: 1}, func(h *piosim.Hardware) {
			_, _ = h.DMA().Claim()
		}, errcode.NoDMA},
		{"second channel", piosim.Options{Blocks: 1, DMAChannels: 1}, nil, errcode.NoDMA},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, hw := newPool(t, c.sim, Options{})
			if c.setup != nil {
				c.setup(hw)
			}
			channels, units := hw.ClaimedChannels(), hw.ClaimedUnits()
			free := hw.Block(0).FreeWords()

			_, err := p.Open(quadConfig())
			assert.ErrorIs(t, err, c.want)
			assert.Equal(t, c.want, errcode.Of(err))

			assert.Equal(t, channels, hw.ClaimedChannels(), "channels leaked")
			assert.Equal(t, units, hw.ClaimedUnits(), "units leaked")
			assert.Equal(t, free, hw.Block(0).FreeWords(), "program leaked")
			assert.Equal(t, 0, p.Stats().Open)
		})
	}
}

func TestOpenRecoversAfterClose(t *testing.T) {
	p, hw := newPool(t, piosim.Options{Blocks: 1, DMAChannels: 2}, Options{})
	a := mustOpen(t, p, singleConfig())

	_, err := p.Open(quadConfig())
	assert.ErrorIs(t, err, errcode.NoDMA)

	a.Close()
	assert.Equal(t, 0, hw.ClaimedChannels())
	assert.Equal(t, 32, hw.Block(0).FreeWords())
	mustOpen(t, p, quadConfig())
}

func TestPoolCapacity(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	a := mustOpen(t, p, singleConfig())
	b := mustOpen(t, p, quadConfig())

	_, err := p.Open(singleConfig())
	assert.ErrorIs(t, err, errcode.NoInstance)
	assert.Equal(t, 4, hw.ClaimedChannels())

	// Both open transports still move data.
	hw.ClearEvents()
	require.NoError(t, p.Select(a).Write([]byte{1, 2, 3, 4}))
	require.NoError(t, p.Select(b).Write([]byte{5, 6, 7, 8, 9}))
	p.Deselect()
	trs := hw.Transfers()
	require.Len(t, trs, 2)
	assert.Equal(t, []byte{1, 2, 3, 4}, trs[0].TX)
	assert.Equal(t, 0, trs[0].Unit)
	assert.Equal(t, []byte{5, 6, 7, 8, 9}, trs[1].TX)
	assert.Equal(t, 1, trs[1].Unit)

	a.Close()
	mustOpen(t, p, singleConfig())
	assert.Equal(t, 2, p.Stats().Open)
}

func TestCloseIsIdempotentAndStaleSafe(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{Capacity: 1})
	a := mustOpen(t, p, singleConfig())
	a.Close()
	a.Close()
	assert.False(t, a.IsOpen())

	b := mustOpen(t, p, quadConfig())
	a.Close()
	assert.True(t, b.IsOpen(), "stale handle closed a reopened slot")
	assert.Equal(t, 2, hw.ClaimedChannels())

	var nilT *Transport
	assert.NotPanics(t, nilT.Close)
}

func TestOpenCopiesConfig(t *testing.T) {
	p, _ := newPool(t, piosim.Options{}, Options{})
	cfg := quadConfig()
	tr := mustOpen(t, p, cfg)
	cfg.Data[0] = 5

	got, ok := tr.Config()
	require.True(t, ok)
	assert.Equal(t, []int{18, 19, 20, 21}, got.Data)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	cfg := quadConfig()
	cfg.Div = ClockDiv{}
	_, err := p.Open(cfg)
	assert.ErrorIs(t, err, errcode.InvalidParams)
	assert.Empty(t, hw.Events())
}

func TestReset(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	tr := mustOpen(t, p, quadConfig())
	hw.ClearEvents()

	require.NoError(t, tr.Reset())
	assert.Equal(t, []bool{false, true}, hw.PinEdges(22))

	var sleeps []time.Duration
	for _, ev := range hw.Events() {
		if ev.Kind == piosim.EvSleep {
			sleeps = append(sleeps, ev.Dur)
		}
	}
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, sleeps)
}

func TestResetWithoutPin(t *testing.T) {
	p, _ := newPool(t, piosim.Options{}, Options{})
	cfg := singleConfig()
	cfg.Reset = NoPin
	tr := mustOpen(t, p, cfg)
	assert.ErrorIs(t, tr.Reset(), errcode.Unsupported)

	tr.Close()
	assert.ErrorIs(t, tr.Reset(), errcode.InvalidParams)
}

func TestIRQ(t *testing.T) {
	p, hw := newPool(t, piosim.Options{}, Options{})
	tr := mustOpen(t, p, singleConfig())
	irq := hw.Pin(24)
	assert.False(t, irq.PullUp, "interrupt line floats")
	assert.False(t, irq.PullDown, "interrupt line floats")
	assert.False(t, irq.Out)

	hw.Pins().Put(24, true)
	asserted, err := tr.IRQ()
	require.NoError(t, err)
	assert.False(t, asserted)

	hw.Pins().Put(24, false)
	asserted, err = tr.IRQ()
	require.NoError(t, err)
	assert.True(t, asserted)
}
