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

// Package testcard is a simple machine that implements the
// emulation.Emulation interface. It has no processor. Each call to Step()
// produces a new frame showing colour bars and a marker that moves one
// column per frame.
//
// The machine keeps a record of every input event it is given and every
// mount request it receives, which makes it useful in tests. It also
// emulates a keyboard controller that toggles its Caps Lock LED when the
// Caps Lock key is pressed and which can be told to be slow (or to never)
// acknowledge LED requests.
package testcard
