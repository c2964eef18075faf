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

// Package sdlhost provides the SDL collaborators of a session.Window: the
// window itself (canvas.Host, frameclock.RefreshRate, registry.Chrome and
// userinput.Indicator), a GL device (canvas.Device) and an event service that
// translates SDL events into calls on the window's presenter and router.
//
// SDL must be used from the main thread. The GL device is the exception: the
// context is created, used and destroyed on the frame clock's goroutine,
// which is locked to its OS thread.
package sdlhost
