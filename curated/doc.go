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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern is what identifies
// the error and packages export their patterns as string constants:
//
//	const NotMounted = "media: slot not mounted: %v"
//
//	err := curated.Errorf(NotMounted, slot)
//	if curated.Is(err, NotMounted) {
//		...
//	}
//
// The Has() function is similar to Is() but checks if the pattern occurs
// anywhere in the chain of curated errors.
//
//	f := curated.Errorf("window: %v", err)
//	curated.Has(f, NotMounted) // true
//	curated.Is(f, NotMounted) // false
//
// Any error value used as a placeholder value is also available to
// errors.Is() and errors.As() from the standard library through the Unwrap()
// function. So an *os.PathError wrapped by a curated error can still be found.
//
// The Error() function normalises the message by removing duplicate
// adjacent parts. For example:
//
//	stream: stream: cannot open file
//
// becomes
//
//	stream: cannot open file
package curated
