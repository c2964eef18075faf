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

package paths_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/openemulator/syncore/paths"
	"github.com/openemulator/syncore/test"
)

func TestResourcePath(t *testing.T) {
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)

	dir := t.TempDir()
	test.DemandSuccess(t, os.Chdir(dir))
	defer os.Chdir(wd)

	// a local resource directory takes priority
	test.DemandSuccess(t, os.Mkdir(".syncore", 0700))

	pth, err := paths.ResourcePath("cache", "image.dsk")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".syncore", "cache", "image.dsk"))

	fi, err := os.Stat(filepath.Join(".syncore", "cache"))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, fi.IsDir())

	pth, err = paths.ResourcePath("", "preferences")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(".syncore", "preferences"))

	pth, err = paths.ResourcePath("", "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".syncore")
}

func TestUniqueFilename(t *testing.T) {
	m := regexp.MustCompile(`^capture_testcard_[0-9]{8}_[0-9]{6}$`)
	test.ExpectSuccess(t, m.MatchString(paths.UniqueFilename("capture", " testcard ")))

	m = regexp.MustCompile(`^recording_[0-9]{8}_[0-9]{6}$`)
	test.ExpectSuccess(t, m.MatchString(paths.UniqueFilename("recording", "")))
}
