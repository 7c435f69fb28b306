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

package golden_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/golden"
	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/test"
)

func TestGenerateDeterministic(t *testing.T) {
	a := golden.Generate(random.NewRandom(golden.DefaultSeed), golden.DefaultCount)
	b := golden.Generate(random.NewRandom(golden.DefaultSeed), golden.DefaultCount)

	test.Equate(t, len(a), golden.DefaultCount)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("generation is not deterministic at record %d", i)
		}
	}

	test.ExpectedSuccess(t, golden.Verify(a))
}

func TestRoundTrip(t *testing.T) {
	recs := golden.Generate(random.NewRandom(golden.DefaultSeed), 20)

	buf := &bytes.Buffer{}
	err := golden.Write(buf, recs, golden.DefaultSeed)
	test.ExpectedSuccess(t, err)

	got, err := golden.Read(buf)
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(got), len(recs))
	for i := range recs {
		if got[i] != recs[i] {
			t.Fatalf("record %d did not survive the round trip", i)
		}
	}
}

func TestReadKnownVectors(t *testing.T) {
	// the first two cross-check vectors from the device's own bench:
	// {0xAA, 0x00000000, mono=0} -> 0x578C and {0xFF, 0xFFFFFFFF,
	// mono=1} -> 0xE80E
	input := strings.Join([]string{
		"// comment line",
		"",
		"AA00000000578C",
		"FFFFFFFFFFE80E",
	}, "\n")

	recs, err := golden.Read(strings.NewReader(input))
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(recs), 2)
	test.Equate(t, recs[0].SensorID, 0xaa)
	test.Equate(t, recs[0].Value, 0)
	test.Equate(t, recs[0].CRC, 0x578c)
	test.Equate(t, recs[1].CRC, 0xe80e)

	test.ExpectedSuccess(t, golden.Verify(recs))
}

func TestVerifyMismatch(t *testing.T) {
	recs := []golden.Record{
		{SensorID: 0xaa, Value: 0, CRC: 0x578c},
		{SensorID: 0xff, Value: 0xffffffff, CRC: 0x0000}, // corrupted
	}

	err := golden.Verify(recs)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, golden.CRCMismatch))
}

func TestReadBadRecord(t *testing.T) {
	_, err := golden.Read(strings.NewReader("not hex at all\n"))
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, golden.BadRecord))

	_, err = golden.Read(strings.NewReader("1234\n"))
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, golden.BadRecord))
}
