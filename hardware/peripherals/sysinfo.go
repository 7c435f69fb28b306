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

package peripherals

import "fmt"

// identification constants in the SYSINFO slot.
const (
	SysVersion = uint32(0x10)
	SysChipID  = uint32(0x01)
)

// ppsPin is the input pin carrying the pulse-per-second signal.
const ppsPin = uint8(0x10)

// SysInfo is the identification and pulse-counter register. The pulse
// counter increments on each rising edge of the PPS input pin.
type SysInfo struct {
	ppsCount uint16
	lastPin  bool
}

// NewSysInfo is the preferred method of initialisation for the SysInfo
// type.
func NewSysInfo() *SysInfo {
	s := &SysInfo{}
	s.Reset()
	return s
}

func (s *SysInfo) Reset() {
	s.ppsCount = 0
	s.lastPin = false
}

func (s *SysInfo) String() string {
	return fmt.Sprintf("pps=%d", s.ppsCount)
}

// Sense samples the input pins for a PPS edge. Called by the block every
// cycle.
func (s *SysInfo) Sense(pins uint8) {
	cur := pins&ppsPin == ppsPin
	if cur && !s.lastPin {
		s.ppsCount++
	}
	s.lastPin = cur
}

func (s *SysInfo) read() uint32 {
	return uint32(s.ppsCount)<<16 | SysChipID<<8 | SysVersion
}
