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

package refmodel

// SealRecord is one committed seal: a value bound to a sensor id, a
// monotonic counter and a checksum. Once committed a record never changes;
// the next commit supersedes it.
type SealRecord struct {
	SensorID  uint8
	Value     uint32
	MonoCount uint32
	CRC       uint16
}

// Serialise returns the 9 bytes the seal engine feeds through the CRC16
// engine at commit time: sensor id, then value and monotonic count in
// little-endian byte order.
func (rec SealRecord) Serialise() []byte {
	return []byte{
		rec.SensorID,
		uint8(rec.Value), uint8(rec.Value >> 8), uint8(rec.Value >> 16), uint8(rec.Value >> 24),
		uint8(rec.MonoCount), uint8(rec.MonoCount >> 8), uint8(rec.MonoCount >> 16), uint8(rec.MonoCount >> 24),
	}
}

// Words returns the record as it appears over the three-phase read of the
// SEAL_DATA slot:
//
//	word 0: value
//	word 1: {sensor_id[7:0], mono_count[23:0]}
//	word 2: {mono_count[31:24], crc16[15:0], 0x00}
func (rec SealRecord) Words() [3]uint32 {
	return [3]uint32{
		rec.Value,
		uint32(rec.SensorID)<<24 | (rec.MonoCount & 0x00ffffff),
		(rec.MonoCount & 0xff000000) | uint32(rec.CRC)<<8,
	}
}

// Seal is the reference model of the seal engine's commit protocol. The
// zero value is the state of the engine after reset.
type Seal struct {
	// the counter value that the *next* commit will snapshot. the first
	// commit after reset observes zero.
	mono uint32

	// the most recent commit. valid only if committed is true.
	record    SealRecord
	committed bool
}

// NewSeal is the preferred method of initialisation for the Seal type.
func NewSeal() *Seal {
	return &Seal{}
}

// Commit a value under a sensor id. The monotonic counter is snapshotted
// into the record before the post-commit increment.
func (s *Seal) Commit(sensorID uint8, value uint32) SealRecord {
	rec := SealRecord{
		SensorID:  sensorID,
		Value:     value,
		MonoCount: s.mono,
	}
	rec.CRC = CRC16(rec.Serialise())

	s.mono++
	s.record = rec
	s.committed = true

	return rec
}

// Record returns the most recent commit. The boolean return value is false
// if nothing has been committed since reset.
func (s *Seal) Record() (SealRecord, bool) {
	return s.record, s.committed
}

// DecodeWords reassembles a SealRecord from the three words of the
// three-phase read. This is the decoder the scenario driver uses on
// observed hardware output; note the monotonic count split across words 1
// and 2.
func DecodeWords(words [3]uint32) SealRecord {
	return SealRecord{
		SensorID:  uint8(words[1] >> 24),
		Value:     words[0],
		MonoCount: (words[2] & 0xff000000) | (words[1] & 0x00ffffff),
		CRC:       uint16(words[2] >> 8),
	}
}
