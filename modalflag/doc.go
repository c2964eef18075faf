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

// Package modalflag wraps the flag package of the standard library and adds
// program modes. A mode is a special command line argument that puts the
// program into a different mode of operation, each mode with its own set of
// flags and arguments.
//
// Arguments are given with NewArgs() and then parsed with Parse(). Sub-modes
// for the next call to Parse() are added with AddSubModes(). The first
// sub-mode added is the default mode. Comparisons are case insensitive and
// the mode is always reported in upper case.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "PLAY", "CAPTURE", "VERSION")
//	if p, err := md.Parse(); p != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		images := md.AddStringList("image", "mount image in slot (slot=path)")
//		...
//	}
//
// Each call to NewMode() starts a new flag set. Parse() then deals with the
// arguments following the mode selector.
package modalflag
