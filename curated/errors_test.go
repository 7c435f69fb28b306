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

package curated_test

import (
	"errors"
	"testing"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/test"
)

const testPattern = "test error: %s"
const testPatternB = "ec error: %s"

func TestMatching(t *testing.T) {
	e := curated.Errorf(testPattern, "an error")

	test.Equate(t, curated.IsAny(e), true)
	test.Equate(t, curated.Is(e, testPattern), true)
	test.Equate(t, curated.Has(e, testPattern), true)

	// a plain error does not match anything
	p := errors.New("plain error")
	test.Equate(t, curated.IsAny(p), false)
	test.Equate(t, curated.Is(p, testPattern), false)

	// nil never matches
	test.Equate(t, curated.IsAny(nil), false)
	test.Equate(t, curated.Has(nil, testPattern), false)
}

func TestChaining(t *testing.T) {
	inner := curated.Errorf(testPattern, "inner")
	outer := curated.Errorf(testPatternB, inner)

	// Is() matches the outermost pattern only. Has() matches anywhere in
	// the chain.
	test.Equate(t, curated.Is(outer, testPattern), false)
	test.Equate(t, curated.Has(outer, testPattern), true)
	test.Equate(t, curated.Has(outer, testPatternB), true)
}

func TestDeduplication(t *testing.T) {
	inner := curated.Errorf("bus: %s", "no response")
	outer := curated.Errorf("bus: %v", inner)

	// adjacent duplicate parts are removed from the message
	test.Equate(t, outer.Error(), "bus: no response")
}
