// This file is part of Syncore.
//
// Syncore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncore.  If not, see <https://www.gnu.org/licenses/>.

// Package test contains helper functions for the package tests. It is not
// used by any non-test code.
//
// The Expect* functions report a failure with t.Errorf() and continue. The
// Demand* functions report a failure with t.Fatalf() and stop the test. The
// latter are useful when the value being tested is relied upon by the rest
// of the test.
//
// Where a test needs to compare text output (from the logger package for
// example) the CompareWriter type can be used as the io.Writer.
package test
