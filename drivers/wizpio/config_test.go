package wizpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"

	"wizpio-go/errcode"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		want errcode.Code
	}{
		{"ok", func(*Config) {}, errcode.OK},
		{"width", func(c *Config) { c.Width = 3 }, errcode.InvalidParams},
		{"pin count", func(c *Config) { c.Data = c.Data[:3] }, errcode.InvalidParams},
		{"gap", func(c *Config) { c.Data = []int{18, 19, 21, 22} }, errcode.InvalidParams},
		{"zero divider", func(c *Config) { c.Div = ClockDiv{} }, errcode.InvalidParams},
		{"block", func(c *Config) { c.PreferredBlock = 2 }, errcode.InvalidParams},
		{"range", func(c *Config) { c.IRQ = 30 }, errcode.UnknownPin},
		{"shared", func(c *Config) { c.Reset = c.Clock }, errcode.PinInUse},
		{"no optional pins", func(c *Config) { c.Reset, c.IRQ = NoPin, NoPin }, errcode.OK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := quadConfig()
			c.mod(&cfg)
			assert.Equal(t, c.want, errcode.Of(cfg.Validate(2)))
		})
	}
}

func TestSingleConfigNeedsDistinctLines(t *testing.T) {
	cfg := singleConfig()
	assert.NoError(t, cfg.Validate(2))
	cfg.Data = []int{23, 23}
	assert.Equal(t, errcode.PinInUse, errcode.Of(cfg.Validate(2)))
}

func TestDividerFor(t *testing.T) {
	sys := 125 * physic.MegaHertz
	assert.Equal(t, ClockDiv{Int: 2}, DividerFor(sys, 31250*physic.KiloHertz))
	assert.Equal(t, ClockDiv{Int: 1, Frac: 144}, DividerFor(sys, 40*physic.MegaHertz))
	assert.Equal(t, ClockDiv{Int: 1}, DividerFor(sys, 200*physic.MegaHertz))
	assert.Equal(t, ClockDiv{Int: 0xFFFF, Frac: 0xFF}, DividerFor(sys, physic.Hertz))
	assert.Equal(t, ClockDiv{Int: 0xFFFF, Frac: 0xFF}, DividerFor(sys, 0))
}
