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

// Package emulation defines the interface between the synchronisation core
// and a running machine. The core never looks inside an emulation. It pulls
// frames, pushes input events, mounts media and reads/writes keyboard LED
// state through the Emulation interface and nothing else.
//
// Implementations are expected to serialise calls internally. The core never
// issues two concurrent mutations of the same emulation but calls arrive from
// more than one goroutine: LatestFrame() and KeyboardLEDs() from the timing
// goroutine and everything else from the host's event goroutine.
//
// The testcard sub-package is a simple implementation used by the
// application's CAPTURE mode and by tests throughout the module.
package emulation
