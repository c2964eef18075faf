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

package prefs_test

import (
	"path/filepath"
	"testing"

	"github.com/openemulator/syncore/prefs"
	"github.com/openemulator/syncore/test"
)

func TestCommandLineStack(t *testing.T) {
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)

	prefs.PushCommandLineStack("foo::bar; baz::qux; malformed")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 1)

	ok, v := prefs.GetCommandLinePref("foo")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "bar")

	// values are removed once they have been retrieved
	ok, _ = prefs.GetCommandLinePref("foo")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, prefs.PopCommandLineStack(), "baz::qux")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}

func TestCommandLinePriority(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "preferences")

	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)

	var interval prefs.Int
	test.ExpectSuccess(t, dsk.Add("input.pasteInterval", &interval))
	test.ExpectSuccess(t, interval.Set(25))
	test.ExpectSuccess(t, dsk.Save())

	prefs.PushCommandLineStack("input.pasteInterval::5")
	defer prefs.PopCommandLineStack()

	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, interval.Get().(int), 5)
}
