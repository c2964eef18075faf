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

// MacKeyMap returns a KeyMap for macOS virtual key codes.
func MacKeyMap() *KeyMap {
	return NewKeyMap(map[uint8]emulation.Key{
		0x00: emulation.KeyA,
		0x01: emulation.KeyS,
		0x02: emulation.KeyD,
		0x03: emulation.KeyF,
		0x04: emulation.KeyH,
		0x05: emulation.KeyG,
		0x06: emulation.KeyZ,
		0x07: emulation.KeyX,
		0x08: emulation.KeyC,
		0x09: emulation.KeyV,
		0x0a: emulation.KeyNonUSBackslash,
		0x0b: emulation.KeyB,
		0x0c: emulation.KeyQ,
		0x0d: emulation.KeyW,
		0x0e: emulation.KeyE,
		0x0f: emulation.KeyR,
		0x10: emulation.KeyY,
		0x11: emulation.KeyT,
		0x12: emulation.Key1,
		0x13: emulation.Key2,
		0x14: emulation.Key3,
		0x15: emulation.Key4,
		0x16: emulation.Key6,
		0x17: emulation.Key5,
		0x18: emulation.KeyEquals,
		0x19: emulation.Key9,
		0x1a: emulation.Key7,
		0x1b: emulation.KeyMinus,
		0x1c: emulation.Key8,
		0x1d: emulation.Key0,
		0x1e: emulation.KeyRightBracket,
		0x1f: emulation.KeyO,
		0x20: emulation.KeyU,
		0x21: emulation.KeyLeftBracket,
		0x22: emulation.KeyI,
		0x23: emulation.KeyP,
		0x24: emulation.KeyEnter,
		0x25: emulation.KeyL,
		0x26: emulation.KeyJ,
		0x27: emulation.KeyApostrophe,
		0x28: emulation.KeyK,
		0x29: emulation.KeySemicolon,
		0x2a: emulation.KeyBackslash,
		0x2b: emulation.KeyComma,
		0x2c: emulation.KeySlash,
		0x2d: emulation.KeyN,
		0x2e: emulation.KeyM,
		0x2f: emulation.KeyPeriod,
		0x30: emulation.KeyTab,
		0x31: emulation.KeySpace,
		0x32: emulation.KeyGrave,
		0x33: emulation.KeyBackspace,
		0x35: emulation.KeyEscape,
		0x36: emulation.KeyRightGUI,
		0x37: emulation.KeyLeftGUI,
		0x38: emulation.KeyLeftShift,
		0x39: emulation.KeyCapsLock,
		0x3a: emulation.KeyLeftAlt,
		0x3b: emulation.KeyLeftControl,
		0x3c: emulation.KeyRightShift,
		0x3d: emulation.KeyRightAlt,
		0x3e: emulation.KeyRightControl,
		0x41: emulation.KeyKPPeriod,
		0x43: emulation.KeyKPMultiply,
		0x45: emulation.KeyKPPlus,
		0x47: emulation.KeyNumLock,
		0x4b: emulation.KeyKPDivide,
		0x4c: emulation.KeyKPEnter,
		0x4e: emulation.KeyKPMinus,
		0x51: emulation.KeyKPEquals,
		0x52: emulation.KeyKP0,
		0x53: emulation.KeyKP1,
		0x54: emulation.KeyKP2,
		0x55: emulation.KeyKP3,
		0x56: emulation.KeyKP4,
		0x57: emulation.KeyKP5,
		0x58: emulation.KeyKP6,
		0x59: emulation.KeyKP7,
		0x5b: emulation.KeyKP8,
		0x5c: emulation.KeyKP9,
		0x60: emulation.KeyF5,
		0x61: emulation.KeyF6,
		0x62: emulation.KeyF7,
		0x63: emulation.KeyF3,
		0x64: emulation.KeyF8,
		0x65: emulation.KeyF9,
		0x67: emulation.KeyF11,
		0x69: emulation.KeyF13,
		0x6a: emulation.KeyF16,
		0x6b: emulation.KeyF14,
		0x6d: emulation.KeyF10,
		0x6f: emulation.KeyF12,
		0x71: emulation.KeyF15,
		0x72: emulation.KeyHelp,
		0x73: emulation.KeyHome,
		0x74: emulation.KeyPageUp,
		0x75: emulation.KeyDelete,
		0x76: emulation.KeyF4,
		0x77: emulation.KeyEnd,
		0x78: emulation.KeyF2,
		0x79: emulation.KeyPageDown,
		0x7a: emulation.KeyF1,
		0x7b: emulation.KeyArrowLeft,
		0x7c: emulation.KeyArrowRight,
		0x7d: emulation.KeyArrowDown,
		0x7e: emulation.KeyArrowUp,
	})
}
