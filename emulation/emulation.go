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

package emulation

import "image"

// Frame is the most recent image produced by an emulation.
type Frame struct {
	// Seq increases every time the emulation produces a new frame. A frame
	// with the same Seq as the previously seen frame is not a new frame and
	// the Image should not be uploaded again.
	Seq uint64

	// nil if the emulation has not produced any output yet. the image must
	// not be changed by the emulation after it has been returned by
	// LatestFrame()
	Image *image.RGBA
}

// IsEmpty returns true if the emulation has not produced a frame yet.
func (f Frame) IsEmpty() bool {
	return f.Image == nil
}

// Emulation is the opaque handle to a running machine.
type Emulation interface {
	// LatestFrame returns the most recently completed frame
	LatestFrame() Frame

	// SubmitInputEvent passes a single keyboard or mouse event to the machine
	SubmitInputEvent(ev InputEvent) error

	// MountImage inserts the image at path into the slot. an error means
	// that the emulation rejected the content of the file
	MountImage(slot SlotID, path string) error

	// UnmountImage removes the image from the slot
	UnmountImage(slot SlotID) error

	// KeyboardLEDs returns the state of the LEDs of the emulated keyboard
	KeyboardLEDs() LED

	// SetKeyboardLEDs requests that the emulated keyboard change its LEDs.
	// the request is not necessarily acknowledged immediately
	SetKeyboardLEDs(leds LED)
}

// AudioSource is implemented by emulations that produce audio. The samples
// are interleaved stereo in the range -1.0 to 1.0.
type AudioSource interface {
	// ReadAudio fills buf with as many samples as are available and returns
	// the number of samples written
	ReadAudio(buf []float32) int

	// SampleRate of the audio produced by ReadAudio()
	SampleRate() int
}

// Destroyer is implemented by emulations that need to release resources
// once they have been removed from the registry.
type Destroyer interface {
	Destroy()
}

// Target resolves an emulation on demand. Components that send requests to
// an emulation hold a Target rather than the emulation itself so that an
// emulation removed from the registry stops receiving requests.
type Target interface {
	Emulation() (Emulation, bool)
}

// TargetFunc adapts an ordinary function to the Target interface.
type TargetFunc func() (Emulation, bool)

// Emulation implements the Target interface.
func (f TargetFunc) Emulation() (Emulation, bool) {
	return f()
}
