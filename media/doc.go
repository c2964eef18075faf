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

// Package media mounts and unmounts removable media images in the slots of
// an emulation. A slot is either mounted or unmounted. A mounted slot must be
// unmounted before another image can be mounted in it.
//
// Mount requests are checked in the following order:
//
//	1. the slot must not be mounted (AlreadyMounted)
//	2. the path must have a recognised extension and must exist (InvalidPath)
//	3. the emulation must accept the image (UnsupportedImageFormat)
//
// The emulation is not called if the first two checks fail.
//
// Images can be mounted from inside an archive (zip, 7z, rar or gzip). The
// first recognised disk image in the archive is unpacked to a cache file,
// which is mounted in its place. The cache file is removed when the slot is
// unmounted.
package media
