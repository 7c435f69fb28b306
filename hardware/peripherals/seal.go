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

// bits of the SEAL_CTRL slot.
const (
	SealBusyBit   = uint32(0x001) // read
	SealCommitBit = uint32(0x002) // write
	SealCRCInit   = uint32(0x001) // write: manual init of the shared CRC engine
)

// sealBytes is the length of the serialised record fed through the CRC
// engine at commit: sensor id, value (little-endian), monotonic count
// (little-endian).
const sealBytes = 9

// Seal is the cryptographic-seal/monotonic-counter engine. A commit
// byte-serialises the staged value under the written sensor id, feeds it
// through the shared CRC engine and latches an immutable record. The
// record is exposed through a three-phase read of the SEAL_DATA slot; the
// read sequence advances on each completed read and wraps.
type Seal struct {
	crc *CRC16

	// staged value, written to SEAL_DATA before a commit
	staged uint32

	// the counter value the next commit will snapshot
	mono uint32

	// commit in progress
	busy    bool
	buf     [sealBytes]uint8
	feedIdx int

	// the latched record, as the three words of the read sequence
	words     [3]uint32
	committed bool
	readSeq   int

	// sensor id at the most recent commit, for ctrl readback
	sensorID uint8
}

// NewSeal is the preferred method of initialisation for the Seal type. The
// CRC engine is the shared one owned by the block.
func NewSeal(crc *CRC16) *Seal {
	s := &Seal{crc: crc}
	s.Reset()
	return s
}

// Reset the engine. The monotonic counter restarts at zero; hardware reset
// is the only thing that ever rewinds it.
func (s *Seal) Reset() {
	s.staged = 0
	s.mono = 0
	s.busy = false
	s.feedIdx = 0
	s.words = [3]uint32{}
	s.committed = false
	s.readSeq = 0
	s.sensorID = 0
}

func (s *Seal) String() string {
	return fmt.Sprintf("mono=%d busy=%v seq=%d", s.mono, s.busy, s.readSeq)
}

// Busy is true from the commit write until the record is latched.
func (s *Seal) Busy() bool {
	return s.busy
}

// writeData stages a value for the next commit.
func (s *Seal) writeData(data uint32) {
	s.staged = data
}

// writeCtrl handles a write to the SEAL_CTRL slot. Bit 1 commits the
// staged value under the sensor id in bits [9:2]. Bit 0 manually re-inits
// the shared CRC engine.
func (s *Seal) writeCtrl(data uint32) {
	if data&SealCRCInit == SealCRCInit {
		s.crc.Init()
	}

	if data&SealCommitBit != SealCommitBit {
		return
	}

	// a commit while busy is ignored; the in-flight record wins
	if s.busy {
		return
	}

	s.sensorID = uint8(data >> 2)

	// snapshot of the counter happens now, before the post-commit
	// increment. the first commit after reset is sealed with zero.
	mono := s.mono

	s.buf = [sealBytes]uint8{
		s.sensorID,
		uint8(s.staged), uint8(s.staged >> 8), uint8(s.staged >> 16), uint8(s.staged >> 24),
		uint8(mono), uint8(mono >> 8), uint8(mono >> 16), uint8(mono >> 24),
	}
	s.feedIdx = 0
	s.busy = true
	s.crc.Init()
}

// Step the engine one cycle. While a commit is in flight the engine feeds
// the serialised record through the CRC engine one byte at a time, waiting
// out the engine's busy cycles between bytes.
func (s *Seal) Step() {
	if !s.busy || s.crc.Busy() {
		return
	}

	if s.feedIdx < sealBytes {
		s.crc.Feed(s.buf[s.feedIdx])
		s.feedIdx++
		return
	}

	// all bytes folded in: latch the record and advance the counter
	mono := s.mono
	s.words = [3]uint32{
		s.staged,
		uint32(s.sensorID)<<24 | mono&0x00ffffff,
		mono&0xff000000 | uint32(s.crc.Sum())<<8,
	}
	s.mono++
	s.committed = true
	s.readSeq = 0
	s.busy = false
}

// readData returns the current word of the three-phase read sequence.
func (s *Seal) readData() uint32 {
	if !s.committed {
		return 0
	}
	return s.words[s.readSeq]
}

// readDataCompleted advances the read sequence. Called on the
// read-completion pulse only, never on a peek.
func (s *Seal) readDataCompleted() {
	if s.committed {
		s.readSeq = (s.readSeq + 1) % 3
	}
}

// readCtrl returns the SEAL_CTRL slot value: busy in bit 0, the most
// recently committed sensor id in bits [9:2].
func (s *Seal) readCtrl() uint32 {
	v := uint32(s.sensorID) << 2
	if s.busy {
		v |= SealBusyBit
	}
	return v
}
