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

import (
	"strings"

	"github.com/openemulator/syncore/emulation"
)

// a single key press produced by decomposing pasted text.
type pasteKey struct {
	key   emulation.Key
	shift bool
}

// runes that can be typed on a US keyboard.
var pasteTable = map[rune]pasteKey{
	' ':  {key: emulation.KeySpace},
	'\n': {key: emulation.KeyEnter},
	'\t': {key: emulation.KeyTab},
	'0':  {key: emulation.Key0},
	')':  {key: emulation.Key0, shift: true},
	'!':  {key: emulation.Key1, shift: true},
	'@':  {key: emulation.Key2, shift: true},
	'#':  {key: emulation.Key3, shift: true},
	'$':  {key: emulation.Key4, shift: true},
	'%':  {key: emulation.Key5, shift: true},
	'^':  {key: emulation.Key6, shift: true},
	'&':  {key: emulation.Key7, shift: true},
	'*':  {key: emulation.Key8, shift: true},
	'(':  {key: emulation.Key9, shift: true},
	'-':  {key: emulation.KeyMinus},
	'_':  {key: emulation.KeyMinus, shift: true},
	'=':  {key: emulation.KeyEquals},
	'+':  {key: emulation.KeyEquals, shift: true},
	'[':  {key: emulation.KeyLeftBracket},
	'{':  {key: emulation.KeyLeftBracket, shift: true},
	']':  {key: emulation.KeyRightBracket},
	'}':  {key: emulation.KeyRightBracket, shift: true},
	'\\': {key: emulation.KeyBackslash},
	'|':  {key: emulation.KeyBackslash, shift: true},
	';':  {key: emulation.KeySemicolon},
	':':  {key: emulation.KeySemicolon, shift: true},
	'\'': {key: emulation.KeyApostrophe},
	'"':  {key: emulation.KeyApostrophe, shift: true},
	'`':  {key: emulation.KeyGrave},
	'~':  {key: emulation.KeyGrave, shift: true},
	',':  {key: emulation.KeyComma},
	'<':  {key: emulation.KeyComma, shift: true},
	'.':  {key: emulation.KeyPeriod},
	'>':  {key: emulation.KeyPeriod, shift: true},
	'/':  {key: emulation.KeySlash},
	'?':  {key: emulation.KeySlash, shift: true},
}

func init() {
	for r := 'a'; r <= 'z'; r++ {
		k := emulation.KeyA + emulation.Key(r-'a')
		pasteTable[r] = pasteKey{key: k}
		pasteTable[r-'a'+'A'] = pasteKey{key: k, shift: true}
	}
	for r := '1'; r <= '9'; r++ {
		pasteTable[r] = pasteKey{key: emulation.Key1 + emulation.Key(r-'1')}
	}
}

// decompose text into key presses. runes that cannot be typed are dropped
// and counted.
func decompose(text string) ([]pasteKey, int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	keys := make([]pasteKey, 0, len(text))
	var dropped int
	for _, r := range text {
		if k, ok := pasteTable[r]; ok {
			keys = append(keys, k)
		} else {
			dropped++
		}
	}
	return keys, dropped
}
