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

package easyterm

import (
	"io"
)

// list of ASCII codes for non-alphanumeric characters.
const (
	KeyCtrlC          = 3
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyEsc            = 27
	KeyBackspace      = 127
)

// list of ASCII code for characters that can follow KeyEsc.
const (
	EscCursor = 91
)

// list of ASCII code for characters that can follow EscCursor.
const (
	CursorUp       = 'A'
	CursorDown     = 'B'
	CursorForward  = 'C'
	CursorBackward = 'D'
	CursorHome     = 'H'
	CursorEnd      = 'F'
)

// KeyKind distinguishes printable runes from special keys.
type KeyKind int

// List of valid KeyKind values.
const (
	KindNone KeyKind = iota
	KindRune
	KindCtrlC
	KindTab
	KindEnter
	KindEsc
	KindBackspace
	KindUp
	KindDown
	KindRight
	KindLeft
	KindHome
	KindEnd
)

// Key is a single key press.
type Key struct {
	Kind KeyKind

	// only valid if Kind is KindRune
	Rune rune
}

// Decode the bytes of a single read from a terminal in cbreak mode.
// Terminals deliver an escape sequence in one read so there is no need to
// wait for more bytes. Unrecognised sequences have a Kind of KindNone.
func Decode(b []byte) Key {
	if len(b) == 0 {
		return Key{}
	}

	switch b[0] {
	case KeyCtrlC:
		return Key{Kind: KindCtrlC}
	case KeyTab:
		return Key{Kind: KindTab}
	case KeyCarriageReturn, '\n':
		return Key{Kind: KindEnter}
	case KeyBackspace:
		return Key{Kind: KindBackspace}
	case KeyEsc:
		if len(b) == 1 {
			return Key{Kind: KindEsc}
		}
		if len(b) < 3 || b[1] != EscCursor {
			return Key{}
		}
		switch b[2] {
		case CursorUp:
			return Key{Kind: KindUp}
		case CursorDown:
			return Key{Kind: KindDown}
		case CursorForward:
			return Key{Kind: KindRight}
		case CursorBackward:
			return Key{Kind: KindLeft}
		case CursorHome:
			return Key{Kind: KindHome}
		case CursorEnd:
			return Key{Kind: KindEnd}
		}
		return Key{}
	}

	r := []rune(string(b))
	if len(r) == 0 || r[0] < ' ' {
		return Key{}
	}
	return Key{Kind: KindRune, Rune: r[0]}
}

// ReadKey reads and decodes a single key press.
func ReadKey(r io.Reader) (Key, error) {
	var buf [8]byte
	n, err := r.Read(buf[:])
	if err != nil {
		return Key{}, err
	}
	return Decode(buf[:n]), nil
}
