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

package stream

import (
	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
)

// Controller pairs a Playback session with a Recording session. The two
// sessions are independent and can be active at the same time.
type Controller struct {
	Playback  *Playback
	Recording *Recording
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController(out Output, notify notifications.Notify, types *filetypes.Registry) *Controller {
	return &Controller{
		Playback:  NewPlayback(out, notify, types),
		Recording: NewRecording(),
	}
}

// SetLogPermission changes the permission of both sessions.
func (ctl *Controller) SetLogPermission(perm logger.Permission) {
	ctl.Playback.SetLogPermission(perm)
	ctl.Recording.SetLogPermission(perm)
}

// Close both sessions.
func (ctl *Controller) Close() {
	ctl.Playback.Close()
	ctl.Recording.Close()
}
