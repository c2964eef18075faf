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

// EventKind identifies the type of an InputEvent.
type EventKind int

// List of valid EventKind values.
const (
	KeyDown EventKind = iota
	KeyUp
	MouseDown
	MouseUp
	MouseMotion
	MouseWheel
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "key down"
	case KeyUp:
		return "key up"
	case MouseDown:
		return "mouse down"
	case MouseUp:
		return "mouse up"
	case MouseMotion:
		return "mouse motion"
	case MouseWheel:
		return "mouse wheel"
	}
	return "unknown event"
}

// MouseButtons is the number of mouse buttons that can be forwarded to an
// emulation.
const MouseButtons = 8

// InputEvent is a single keyboard or mouse event.
type InputEvent struct {
	Kind EventKind

	// valid for KeyDown and KeyUp
	Key Key

	// valid for MouseDown and MouseUp. in the range 0 to MouseButtons-1
	Button int

	// relative movement for MouseMotion and MouseWheel
	X, Y int
}

func (ev InputEvent) String() string {
	switch ev.Kind {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s %s", ev.Kind, ev.Key)
	case MouseDown, MouseUp:
		return fmt.Sprintf("%s %d", ev.Kind, ev.Button)
	}
	return fmt.Sprintf("%s %d,%d", ev.Kind, ev.X, ev.Y)
}

// LED is a bitset of keyboard LEDs. The bit order is the same as the USB HID
// LED output report.
type LED uint8

// List of keyboard LEDs.
const (
	LEDNumLock LED = 1 << iota
	LEDCapsLock
	LEDScrollLock
)

func (l LED) String() string {
	s := []byte("---")
	if l&LEDNumLock == LEDNumLock {
		s[0] = 'N'
	}
	if l&LEDCapsLock == LEDCapsLock {
		s[1] = 'C'
	}
	if l&LEDScrollLock == LEDScrollLock {
		s[2] = 'S'
	}
	return string(s)
}
