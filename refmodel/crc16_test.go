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

package refmodel_test

import (
	"testing"

	"github.com/perivale/perivale/refmodel"
	"github.com/perivale/perivale/test"
)

func TestKnownVectors(t *testing.T) {
	vectors := []struct {
		data []byte
		crc  uint16
	}{
		// a MODBUS "read holding registers" request frame
		{[]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0a}, 0xcdc5},

		// the standard check string for CRC16/MODBUS
		{[]byte("123456789"), 0x4b37},

		{[]byte{0x00}, 0x40bf},
		{[]byte{0x55}, 0x7f7f},
		{[]byte{0xaa}, 0x3f3f},
		{[]byte{0xde, 0xad, 0xbe, 0xef}, 0xc19b},

		// empty input leaves the accumulator at the init value
		{[]byte{}, 0xffff},
	}

	for _, v := range vectors {
		test.Equate(t, refmodel.CRC16(v.data), v.crc)
	}
}

func TestStreamMatchesWhole(t *testing.T) {
	data := []byte("the quick brown fox")

	crc := refmodel.NewCRC16()
	for _, b := range data {
		crc.Feed(b)
	}

	test.Equate(t, crc.Sum(), refmodel.CRC16(data))
}

func TestInitMidStream(t *testing.T) {
	// an init pulse discards partial state; accumulation restarts from the
	// init value even with bytes already fed
	crc := refmodel.NewCRC16()
	crc.Feed(0xaa, 0xbb, 0xcc)
	crc.Init()
	crc.Feed(0x55)

	test.Equate(t, crc.Sum(), refmodel.CRC16([]byte{0x55}))
}
