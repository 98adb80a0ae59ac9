//go:build rp2040

package platform

import (
	"runtime/volatile"
	"unsafe"
)

// Atomic register aliases on APB/AHB peripherals.
const (
	aliasSet uintptr = 0x2000
	aliasClr uintptr = 0x3000
)

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

func setBits(addr uintptr, mask uint32) { reg(addr + aliasSet).Set(mask) }
func clrBits(addr uintptr, mask uint32) { reg(addr + aliasClr).Set(mask) }

// PIO
const (
	pio0Base uintptr = 0x50200000
	pio1Base uintptr = 0x50300000

	pioCTRL       = 0x000
	pioFSTAT      = 0x004
	pioFDEBUG     = 0x008
	pioTXF0       = 0x010
	pioRXF0       = 0x020
	pioSYNCBYPASS = 0x038
	pioINSTRMEM0  = 0x048
	pioSM0        = 0x0c8
	pioSMStride   = 0x18

	smCLKDIV    = 0x00
	smEXECCTRL  = 0x04
	smSHIFTCTRL = 0x08
	smADDR      = 0x0c
	smINSTR     = 0x10
	smPINCTRL   = 0x14

	pioInstrWords = 32
	pioUnits      = 4
)

// CTRL
const (
	ctrlSMEnable   = 0
	ctrlSMRestart  = 4
	ctrlDivRestart = 8
)

// FSTAT / FDEBUG
const (
	fstatTXFull   = 16
	fdebugTXStall = 24
)

// EXECCTRL
const (
	execWrapBottom = 7
	execWrapTop    = 12
	execOutSticky  = 1 << 17
	execWrapMask   = 0x1f<<execWrapTop | 0x1f<<execWrapBottom
)

// SHIFTCTRL
const (
	shiftAutoPush   = 1 << 16
	shiftAutoPull   = 1 << 17
	shiftPushThresh = 20
	shiftPullThresh = 25
	shiftFJoinRX    = 1 << 31
)

// PINCTRL
const (
	pinOutBase      = 0
	pinSetBase      = 5
	pinSideSetBase  = 10
	pinInBase       = 15
	pinOutCount     = 20
	pinSetCount     = 26
	pinSideSetCount = 29
)

// DMA
const (
	dmaBase     uintptr = 0x50000000
	dmaChStride         = 0x40
	dmaChannels         = 12

	dmaREAD  = 0x0
	dmaWRITE = 0x4
	dmaCOUNT = 0x8
	dmaCTRL  = 0xc

	dmaABORT uintptr = 0x444

	dmaEN        = 1 << 0
	dmaIncrRead  = 1 << 4
	dmaIncrWrite = 1 << 5
	dmaChainTo   = 11
	dmaTReq      = 15
	dmaBusy      = 1 << 24
)

// GPIO
const (
	ioBank0Base   uintptr = 0x40014000
	padsBank0Base uintptr = 0x4001c000
	sioBase       uintptr = 0xd0000000

	sioGPIOIn     = 0x004
	sioGPIOOutSet = 0x014
	sioGPIOOutClr = 0x018
	sioGPIOOESet  = 0x024
	sioGPIOOEClr  = 0x028

	padSlewFast = 1 << 0
	padSchmitt  = 1 << 1
	padPDE      = 1 << 2
	padPUE      = 1 << 3
	padDrive    = 4
	padIE       = 1 << 6
	padOD       = 1 << 7
)

func gpioCtrl(pin int) uintptr { return ioBank0Base + 0x4 + 8*uintptr(pin) }
func padCtrl(pin int) uintptr  { return padsBank0Base + 0x4 + 4*uintptr(pin) }
