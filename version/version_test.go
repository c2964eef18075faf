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

package version

import (
	"runtime/debug"
	"testing"

	"github.com/openemulator/syncore/test"
)

func TestFromBuildInfo(t *testing.T) {
	none := func() (*debug.BuildInfo, bool) {
		return nil, false
	}

	inf := fromBuildInfo("", none)
	test.ExpectEquality(t, inf.Version, "local")
	test.ExpectEquality(t, inf.Revision, "no revision information")
	test.ExpectFailure(t, inf.Release)

	dirty := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.21.0",
			Settings: []debug.BuildSetting{
				{Key: "vcs", Value: "git"},
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	inf = fromBuildInfo("", dirty)
	test.ExpectEquality(t, inf.Version, "unreleased")
	test.ExpectEquality(t, inf.Revision, "abc123+dirty")
	test.ExpectEquality(t, inf.GoVersion, "go1.21.0")
	test.ExpectEquality(t, inf.String(), "Syncore unreleased (abc123+dirty)")

	inf = fromBuildInfo("v0.1.0", dirty)
	test.ExpectSuccess(t, inf.Release)
	test.ExpectEquality(t, inf.String(), "Syncore v0.1.0")
}
