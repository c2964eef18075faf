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

// Package paths contains functions to prepare paths to syncore resources.
//
// The ResourcePath() function returns a path inside the resource directory.
// If a directory named ".syncore" is present in the program's current
// directory then that is the base path that will be used. Otherwise the
// "syncore" directory in the user's config directory is used (see
// os.UserConfigDir()).
//
//	pth, err := paths.ResourcePath("cache", "")
//
// Requested sub directories are created if they do not exist. The file
// itself is not created.
package paths
