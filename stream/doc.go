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

// Package stream implements the two timed stream sessions that run alongside
// an emulation: audio playback from a file and audio recording to a file.
//
// The Playback and Recording types are independent of one another and of the
// frame clock. Each runs its own goroutine while active. The Controller type
// pairs one of each.
//
// Both sessions are small state machines:
//
//	idle -> active -> idle
//
// Playback can additionally be paused and resumed. A session that stopped
// because of an error returns to idle and the error is reported by Err().
//
// A session that fails to open is left idle and holds no resources. Close()
// always succeeds and always releases the file and the output device.
package stream
