//go:build !rp2040

package platform

import (
	"periph.io/x/conn/v3/physic"

	"wizpio-go/drivers/wizpio/piocore"
	"wizpio-go/drivers/wizpio/piosim"
)

// DefaultHardware returns a fresh simulator sized like an RP2040. Host
// builds never touch real hardware.
func DefaultHardware() piocore.Hardware { return piosim.New(piosim.Options{}) }

// SystemClock is the nominal RP2040 system clock.
func SystemClock() physic.Frequency { return 125 * physic.MegaHertz }
