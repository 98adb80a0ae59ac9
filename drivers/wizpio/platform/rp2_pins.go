//go:build rp2040

package platform

import "wizpio-go/drivers/wizpio/piocore"

// rp2Pins drives IO_BANK0, PADS_BANK0 and SIO directly so that the pad
// settings the transport needs (drive, slew, hysteresis) are reachable.
type rp2Pins struct{}

func (rp2Pins) Init(pin int) {
	mask := uint32(1) << pin
	reg(sioBase + sioGPIOOEClr).Set(mask)
	reg(sioBase + sioGPIOOutClr).Set(mask)
	r := reg(padCtrl(pin))
	r.Set(r.Get()&^padOD | padIE)
	reg(gpioCtrl(pin)).Set(uint32(piocore.FuncSIO))
}

func (rp2Pins) SetDir(pin int, out bool) {
	if out {
		reg(sioBase + sioGPIOOESet).Set(1 << pin)
	} else {
		reg(sioBase + sioGPIOOEClr).Set(1 << pin)
	}
}

func (rp2Pins) Put(pin int, high bool) {
	if high {
		reg(sioBase + sioGPIOOutSet).Set(1 << pin)
	} else {
		reg(sioBase + sioGPIOOutClr).Set(1 << pin)
	}
}

func (rp2Pins) Get(pin int) bool {
	return reg(sioBase+sioGPIOIn).Get()&(1<<pin) != 0
}

func (rp2Pins) SetPulls(pin int, up, down bool) {
	var v uint32
	if up {
		v |= padPUE
	}
	if down {
		v |= padPDE
	}
	r := reg(padCtrl(pin))
	r.Set(r.Get()&^(padPUE|padPDE) | v)
}

func (rp2Pins) SetHysteresis(pin int, on bool) {
	if on {
		setBits(padCtrl(pin), padSchmitt)
	} else {
		clrBits(padCtrl(pin), padSchmitt)
	}
}

func (rp2Pins) SetFunction(pin int, fn piocore.Func) {
	r := reg(padCtrl(pin))
	r.Set(r.Get()&^padOD | padIE)
	reg(gpioCtrl(pin)).Set(uint32(fn))
}

func (rp2Pins) SetDrive(pin int, d piocore.Drive, fastSlew bool) {
	r := reg(padCtrl(pin))
	v := r.Get()&^(3<<padDrive|padSlewFast) | uint32(d)<<padDrive
	if fastSlew {
		v |= padSlewFast
	}
	r.Set(v)
}
