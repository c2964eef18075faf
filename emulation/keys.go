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

package emulation

import "fmt"

// Key is a logical key identifier. Values are the usage IDs of the USB HID
// keyboard usage page, which is also how SDL numbers its scancodes.
type Key uint16

// KeyNone is not a key. It is the value of an unmapped entry in a key map.
const KeyNone Key = 0x00

// List of keys.
const (
	KeyA Key = iota + 0x04
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyMinus
	KeyEquals
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeyNonUSHash
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyComma
	KeyPeriod
	KeySlash
	KeyCapsLock
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyInsert
	KeyHome
	KeyPageUp
	KeyDelete
	KeyEnd
	KeyPageDown
	KeyArrowRight
	KeyArrowLeft
	KeyArrowDown
	KeyArrowUp
	KeyNumLock
	KeyKPDivide
	KeyKPMultiply
	KeyKPMinus
	KeyKPPlus
	KeyKPEnter
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKP0
	KeyKPPeriod
	KeyNonUSBackslash
	KeyApplication
	KeyPower
	KeyKPEquals
	KeyF13
	KeyF14
	KeyF15
	KeyF16
)

// Help key.
const KeyHelp Key = 0x75

// Modifier keys.
const (
	KeyLeftControl Key = iota + 0xe0
	KeyLeftShift
	KeyLeftAlt
	KeyLeftGUI
	KeyRightControl
	KeyRightShift
	KeyRightAlt
	KeyRightGUI
)

// IsModifier returns true if the key is one of the modifier keys.
func (k Key) IsModifier() bool {
	return k >= KeyLeftControl && k <= KeyRightGUI
}

var keyNames = map[Key]string{
	KeyEnter:        "Enter",
	KeyEscape:       "Escape",
	KeyBackspace:    "Backspace",
	KeyTab:          "Tab",
	KeySpace:        "Space",
	KeyCapsLock:     "CapsLock",
	KeyNumLock:      "NumLock",
	KeyScrollLock:   "ScrollLock",
	KeyArrowLeft:    "Left",
	KeyArrowRight:   "Right",
	KeyArrowUp:      "Up",
	KeyArrowDown:    "Down",
	KeyLeftControl:  "LeftControl",
	KeyLeftShift:    "LeftShift",
	KeyLeftAlt:      "LeftAlt",
	KeyLeftGUI:      "LeftGUI",
	KeyRightControl: "RightControl",
	KeyRightShift:   "RightShift",
	KeyRightAlt:     "RightAlt",
	KeyRightGUI:     "RightGUI",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= Key1 && k <= Key9:
		return string(rune('1' + k - Key1))
	case k == Key0:
		return "0"
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("key(%#02x)", uint16(k))
}
