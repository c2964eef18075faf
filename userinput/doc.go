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

// Package userinput routes keyboard and mouse input from the host to an
// emulation. Host key codes are translated into logical keys with a KeyMap,
// a fixed table of 256 entries. Codes that are not in the table are
// ignored.
//
// The Router type also looks after the keyboard LEDs. When the host toggles
// Caps Lock the router forwards the key to the emulation and marks the LEDs
// as not synchronised. SynchronizeLEDs() should be called every tick and
// clears the flag once the emulated keyboard reports the same LED state as
// the host. If the emulation changes its own LEDs the host indicator is
// updated to match.
//
// Text can be pasted into the emulation. The text is decomposed into key
// presses which are delivered on a separate goroutine at a throttled rate
// so that the emulated keyboard buffer does not overflow.
package userinput
