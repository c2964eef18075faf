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

import (
	"fmt"
	"strings"
)

// SlotID identifies a mount point on a device of the emulation. For example
// "disk/0" for the first drive of the disk controller.
type SlotID string

// NewSlotID creates a SlotID from a device name and a mount point name.
func NewSlotID(device string, mount string) SlotID {
	return SlotID(fmt.Sprintf("%s/%s", device, mount))
}

// ParseSlotID checks that the string is a valid SlotID.
func ParseSlotID(s string) (SlotID, error) {
	dev, mnt, ok := strings.Cut(s, "/")
	if !ok || dev == "" || mnt == "" || strings.Contains(mnt, "/") {
		return "", fmt.Errorf("emulation: slot id must be of the form device/mountpoint: %q", s)
	}
	return SlotID(s), nil
}

// Device part of the SlotID.
func (id SlotID) Device() string {
	dev, _, _ := strings.Cut(string(id), "/")
	return dev
}

// Mount point part of the SlotID.
func (id SlotID) Mount() string {
	_, mnt, _ := strings.Cut(string(id), "/")
	return mnt
}
