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

// Package version reports the version of the application. The version
// number is set with the linker when building a release:
//
//	go build -ldflags "-X github.com/openemulator/syncore/version.number=v0.1.0"
//
// Otherwise the version is derived from the VCS information embedded in the
// binary by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "Syncore"

// set by the linker for release builds.
var number string

// Info describes the build.
type Info struct {
	// the version number. "unreleased" if the binary was built from a VCS
	// checkout without a version number and "local" if there is no VCS
	// information at all, which happens with "go run ."
	Version string

	// the VCS revision, suffixed with "+dirty" if there were uncommitted
	// changes at build time
	Revision string

	// Go version used to build the binary
	GoVersion string

	// true if the version is a numbered release
	Release bool
}

func (inf Info) String() string {
	if inf.Release {
		return fmt.Sprintf("%s %s", ApplicationName, inf.Version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, inf.Version, inf.Revision)
}

var info Info

// Version returns information about the running binary.
func Version() Info {
	return info
}

func init() {
	info = fromBuildInfo(number, debug.ReadBuildInfo)
}

func fromBuildInfo(number string, read func() (*debug.BuildInfo, bool)) Info {
	var inf Info
	var vcs bool
	var modified bool

	if bi, ok := read(); ok {
		inf.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				inf.Revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	if inf.Revision == "" {
		inf.Revision = "no revision information"
	} else if modified {
		inf.Revision = fmt.Sprintf("%s+dirty", inf.Revision)
	}

	switch {
	case number != "":
		inf.Version = number
		inf.Release = true
	case vcs:
		inf.Version = "unreleased"
	default:
		inf.Version = "local"
	}

	return inf
}
