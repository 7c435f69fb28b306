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

// Package curated is the error type used throughout Perivale. Errors are
// created with a pattern string, in the manner of fmt.Errorf(), but the
// pattern is retained so that errors can be matched against it later.
//
// Packages that can fail declare their patterns as exported constants. For
// example, the bus package declares the pattern for a read-window stability
// violation. Callers that care about a particular failure test for it with
// the Is() or Has() functions:
//
//	err := drv.Read(slot)
//	if curated.Has(err, bus.ReadWindowInstability) {
//		...
//	}
//
// The harness error taxonomy distinguishes failures that end a scenario
// (protocol violations, decode mismatches, stuck engines) from outcomes
// that are merely reported (an I2C NACK is a legitimate test result, not an
// error, and is never expressed as a curated error).
package curated
