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

package notifications

// Notice describes events that somehow change the presentation of an
// emulation or the state of the application chrome.
type Notice string

// List of defined notifications.
const (
	// an emulation has been added to or removed from the registry. the
	// removed notice is sent to every dependent bound to the emulation
	NotifyEmulationAdded   Notice = "NotifyEmulationAdded"
	NotifyEmulationRemoved Notice = "NotifyEmulationRemoved"

	// the menu bar suppression counter has moved from zero to one or from
	// one to zero
	NotifyMenuBarSuppressed Notice = "NotifyMenuBarSuppressed"
	NotifyMenuBarRestored   Notice = "NotifyMenuBarRestored"

	// the canvas has disabled itself after a GPU failure
	NotifyCanvasDisabled Notice = "NotifyCanvasDisabled"

	// audio playback has reached the end of the stream
	NotifyPlaybackEnded Notice = "NotifyPlaybackEnded"
)

// Notify is implemented by anything that wants to receive notices.
type Notify interface {
	Notify(notice Notice) error
}

// NotifyFunc adapts an ordinary function to the Notify interface.
type NotifyFunc func(notice Notice) error

// Notify implements the Notify interface.
func (f NotifyFunc) Notify(notice Notice) error {
	return f(notice)
}
