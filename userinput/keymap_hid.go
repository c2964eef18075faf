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

package userinput

import "github.com/openemulator/syncore/emulation"

// HIDKeyMap returns a KeyMap for hosts that report USB HID usage IDs. SDL
// scancodes below 256 are HID usage IDs.
func HIDKeyMap() *KeyMap {
	m := make(map[uint8]emulation.Key)
	for k := emulation.KeyA; k <= emulation.KeyF16; k++ {
		m[uint8(k)] = k
	}
	m[uint8(emulation.KeyHelp)] = emulation.KeyHelp
	for k := emulation.KeyLeftControl; k <= emulation.KeyRightGUI; k++ {
		m[uint8(k)] = k
	}
	return NewKeyMap(m)
}
