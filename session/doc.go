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

// Package session joins the synchronisation components into a window. A
// Window owns one of each component and binds them to a single emulation
// through the registry:
//
//	frameclock.FrameClock  ->  Window.Tick()  ->  canvas.Presenter
//	                                           ->  userinput.Router (LEDs)
//	                                           ->  stream.Recording (audio)
//
// Input, media and stream requests from the host UI are made directly on the
// Window's Input, Media and Streams fields.
//
// When the emulation is removed from the registry the window is told and it
// stops the clock, cancels any paste in progress and closes the streams. The
// window is then "detached" and remains so until it is closed.
package session
