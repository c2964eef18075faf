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

package registry

import (
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
)

// SetChrome sets the host UI that is affected by menu bar suppression. The
// current suppression state is applied immediately.
func (reg *Registry) SetChrome(chrome Chrome) {
	reg.menuCrit.Lock()
	defer reg.menuCrit.Unlock()

	reg.chrome = chrome
	if reg.chrome != nil {
		reg.chrome.SetMenuBarVisible(reg.menu.Load() == 0)
	}
}

// DisableMenuBar increases the menu bar suppression count. The menu bar is
// hidden when the count moves from zero to one.
func (reg *Registry) DisableMenuBar() {
	reg.menuCrit.Lock()
	defer reg.menuCrit.Unlock()

	if reg.menu.Add(1) != 1 {
		return
	}

	if reg.chrome != nil {
		reg.chrome.SetMenuBarVisible(false)
	}
	reg.notifyObservers(notifications.NotifyMenuBarSuppressed)
}

// EnableMenuBar decreases the menu bar suppression count. The menu bar is
// shown again when the count returns to zero. Calls that are not paired with
// an earlier call to DisableMenuBar() are ignored.
func (reg *Registry) EnableMenuBar() {
	reg.menuCrit.Lock()
	defer reg.menuCrit.Unlock()

	if reg.menu.Load() == 0 {
		logger.Log(reg.perm, "registry", "menu bar enabled more times than it was disabled")
		return
	}

	if reg.menu.Add(-1) != 0 {
		return
	}

	if reg.chrome != nil {
		reg.chrome.SetMenuBarVisible(true)
	}
	reg.notifyObservers(notifications.NotifyMenuBarRestored)
}

// MenuBarSuppressed returns true if the menu bar suppression count is
// greater than zero.
func (reg *Registry) MenuBarSuppressed() bool {
	return reg.menu.Load() > 0
}

// MenuBarCount returns the current menu bar suppression count.
func (reg *Registry) MenuBarCount() int {
	return int(reg.menu.Load())
}

func (reg *Registry) notifyObservers(notice notifications.Notice) {
	reg.crit.Lock()
	observers := append([]notifications.Notify{}, reg.observers...)
	reg.crit.Unlock()
	reg.send(observers, notice)
}
