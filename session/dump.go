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

package session

import (
	"io"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/emulation"
)

// State is a snapshot of a window's components.
type State struct {
	Detached bool

	Clock struct {
		Running    bool
		ActualRate float32
	}

	Canvas struct {
		Kind     string
		Focused  bool
		Geometry canvas.Geometry
		Stats    canvas.Stats
		Disabled string
	}

	Input struct {
		HostLEDs     string
		Synchronized bool
		Pasting      bool
	}

	Media struct {
		Mounted map[emulation.SlotID]string
	}

	Playback struct {
		State    string
		Position time.Duration
		Total    time.Duration
	}

	Recording struct {
		Active   bool
		Position time.Duration
		Size     int64
	}
}

// State returns a snapshot of the window.
func (win *Window) State() *State {
	st := &State{}

	st.Detached = win.IsDetached()

	st.Clock.Running = win.Clock.IsRunning()
	st.Clock.ActualRate = win.Clock.ActualRate()

	st.Canvas.Kind = win.Presenter.Kind().String()
	st.Canvas.Focused = win.Presenter.IsFocused()
	st.Canvas.Geometry = win.Presenter.Geometry()
	st.Canvas.Stats = win.Presenter.Stats()
	if err := win.Presenter.Disabled(); err != nil {
		st.Canvas.Disabled = err.Error()
	}

	st.Input.HostLEDs = win.Input.HostLEDs().String()
	st.Input.Synchronized = win.Input.LEDsSynchronized()
	st.Input.Pasting = win.Input.IsPasting()

	st.Media.Mounted = make(map[emulation.SlotID]string)
	for _, slot := range win.Media.Slots() {
		if pth, ok := win.Media.Mounted(slot); ok {
			st.Media.Mounted[slot] = pth
		}
	}

	st.Playback.State = win.Streams.Playback.State().String()
	st.Playback.Position = win.Streams.Playback.Position()
	st.Playback.Total = win.Streams.Playback.Total()

	st.Recording.Active = win.Streams.Recording.IsActive()
	st.Recording.Position = win.Streams.Recording.Position()
	st.Recording.Size = win.Streams.Recording.Size()

	return st
}

// DumpState writes a graphviz description of the window's state.
func (win *Window) DumpState(w io.Writer) {
	memviz.Map(w, win.State())
}
