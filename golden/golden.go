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

// Package golden reads, writes and generates the seal golden-vector files.
//
// A vector file carries one fixed-width hex record per line, packing
// sensor id, sealed value and expected CRC into 56 bits:
//
//	{sensor_id[7:0], value[31:0], crc16[15:0]}
//
// The monotonic count is implicit: record i was sealed with count i. Lines
// beginning with "//" are comments.
package golden

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/refmodel"
)

// DefaultSeed and DefaultCount are the parameters of the canonical vector
// file shipped with the device's own test bench.
const (
	DefaultSeed  = 42
	DefaultCount = 100
)

// Error patterns raised by the package.
const (
	BadRecord   = "golden: bad record on line %d: %s"
	CRCMismatch = "golden: record %d: crc mismatch: computed %04x, recorded %04x"
)

// Record is one golden vector. The monotonic count is not stored; it is
// the record's index in the file.
type Record struct {
	SensorID uint8
	Value    uint32
	CRC      uint16
}

func (rec Record) String() string {
	return fmt.Sprintf("%014X", rec.pack())
}

func (rec Record) pack() uint64 {
	return uint64(rec.SensorID)<<48 | uint64(rec.Value)<<16 | uint64(rec.CRC)
}

func unpack(v uint64) Record {
	return Record{
		SensorID: uint8(v >> 48),
		Value:    uint32(v >> 16),
		CRC:      uint16(v),
	}
}

// Generate produces a deterministic vector set from the supplied random
// source. Two calls with generators seeded the same yield identical sets.
func Generate(rnd *random.Random, n int) []Record {
	recs := make([]Record, n)
	model := refmodel.NewSeal()
	for i := range recs {
		sid := rnd.Byte()
		val := rnd.Uint32()
		sealed := model.Commit(sid, val)
		recs[i] = Record{SensorID: sid, Value: val, CRC: sealed.CRC}
	}
	return recs
}

// Verify recomputes every record's CRC through the reference model, with
// the monotonic count taken from the record's position.
func Verify(recs []Record) error {
	model := refmodel.NewSeal()
	for i, rec := range recs {
		sealed := model.Commit(rec.SensorID, rec.Value)
		if sealed.CRC != rec.CRC {
			return curated.Errorf(CRCMismatch, i, sealed.CRC, rec.CRC)
		}
	}
	return nil
}

// Write the vector set in the persisted file format, header comment
// included.
func Write(output io.Writer, recs []Record, seed int64) error {
	_, err := fmt.Fprintf(output, "// seal golden vectors\n// %d vectors, seed=%d\n", len(recs), seed)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if _, err := fmt.Fprintf(output, "%s\n", rec.String()); err != nil {
			return err
		}
	}
	return nil
}

// Read a vector file. Comment and blank lines are skipped.
func Read(input io.Reader) ([]Record, error) {
	var recs []Record

	scanner := bufio.NewScanner(input)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "//") {
			continue
		}
		if len(s) != 14 {
			return nil, curated.Errorf(BadRecord, line, s)
		}
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return nil, curated.Errorf(BadRecord, line, s)
		}
		recs = append(recs, unpack(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}
