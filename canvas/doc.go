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

// Package canvas presents the frames produced by an emulation. The Presenter
// type is driven by the frame clock: GPU resources are acquired when the
// clock starts, every tick presents the latest frame and the resources are
// released when the clock stops. All GPU work therefore happens on the
// clock's goroutine.
//
// The host window system tells the presenter about changes to the window
// size, the screen and the backing scale with the On*() functions. These
// only set a flag. The new geometry is calculated, and the drawable
// reshaped, at the start of the next tick.
//
// If the emulation has not produced a new frame since the previous tick the
// previous frame is presented again without being uploaded.
//
// GPU failures are fatal to the presenter but not to the application. The
// device is released, the error is reported once through the error handler
// and all further ticks do nothing.
//
// The Device interface is implemented by the SoftDevice type in this package
// and by the OpenGL device in the gui/sdlhost package.
package canvas
