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

// KeyMap translates host key codes to logical keys. A KeyMap cannot be
// changed once it has been created.
type KeyMap struct {
	table [256]emulation.Key
}

// NewKeyMap creates a KeyMap from a map of host codes to logical keys.
func NewKeyMap(m map[uint8]emulation.Key) *KeyMap {
	km := &KeyMap{}
	for code, key := range m {
		km.table[code] = key
	}
	return km
}

// Lookup the logical key for a host code. Returns false if the code is not
// mapped.
func (km *KeyMap) Lookup(code uint8) (emulation.Key, bool) {
	k := km.table[code]
	return k, k != emulation.KeyNone
}

// Len returns the number of mapped codes.
func (km *KeyMap) Len() int {
	var n int
	for _, k := range km.table {
		if k != emulation.KeyNone {
			n++
		}
	}
	return n
}
