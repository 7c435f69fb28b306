// This file is part of Perivale.
//
// Perivale is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Perivale is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Perivale.  If not, see <https://www.gnu.org/licenses/>.

// Package mmio defines the register map of the peripheral block. Each
// peripheral occupies a 32-bit slot; the slot index appears in bits [6:2]
// of the bus address and bit 27 selects the MMIO space.
package mmio

// Slot is the index of a peripheral register in the block.
type Slot uint8

// The sixteen defined slots. Slots 16 to 31 decode to nothing and read as
// the Unmapped sentinel.
const (
	GPIOOut    Slot = 0x0
	GPIOIn     Slot = 0x1
	CRC16      Slot = 0x2
	GPIOOutSel Slot = 0x3
	UART       Slot = 0x4
	UARTStatus Slot = 0x5
	I2CData    Slot = 0x6
	I2CConfig  Slot = 0x7
	SPI        Slot = 0x8
	SPIStatus  Slot = 0x9
	RTC        Slot = 0xa
	SealData   Slot = 0xb
	Timer      Slot = 0xc
	WDT        Slot = 0xd
	SealCtrl   Slot = 0xe
	SysInfo    Slot = 0xf
)

// NumSlots is the number of addressable slots, defined or not.
const NumSlots = 32

// NumDefined is the number of slots backed by a peripheral.
const NumDefined = 16

// Unmapped is the value returned by a read of any slot with no peripheral
// behind it. It must hold for every unmapped slot, always.
const Unmapped = uint32(0xffffffff)

// Base is the CPU-visible base address of the MMIO space. Bit 27 is the
// MMIO select; the CPU's tp register is initialised to this value at reset.
const Base = uint32(1 << 27)

// Addr returns the full bus address of a slot.
func Addr(slot Slot) uint32 {
	return Base | uint32(slot)<<2
}

// Offset returns the byte offset of a slot from Base. This is the offset
// used in load/store instructions against the tp base register.
func Offset(slot Slot) uint32 {
	return uint32(slot) << 2
}

// SlotFromAddr extracts the slot index from a bus address.
func SlotFromAddr(addr uint32) Slot {
	return Slot((addr >> 2) & 0x1f)
}

// IsMMIO returns true if the address decodes to the MMIO space.
func IsMMIO(addr uint32) bool {
	return addr&Base == Base
}

func (slot Slot) String() string {
	switch slot {
	case GPIOOut:
		return "GPIO_OUT"
	case GPIOIn:
		return "GPIO_IN"
	case CRC16:
		return "CRC16"
	case GPIOOutSel:
		return "GPIO_OUT_SEL"
	case UART:
		return "UART"
	case UARTStatus:
		return "UART_STATUS"
	case I2CData:
		return "I2C_DATA"
	case I2CConfig:
		return "I2C_CONFIG"
	case SPI:
		return "SPI"
	case SPIStatus:
		return "SPI_STATUS"
	case RTC:
		return "RTC"
	case SealData:
		return "SEAL_DATA"
	case Timer:
		return "TIMER"
	case WDT:
		return "WDT"
	case SealCtrl:
		return "SEAL_CTRL"
	case SysInfo:
		return "SYSINFO"
	}
	return "UNMAPPED"
}
