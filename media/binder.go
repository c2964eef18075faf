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

package media

import (
	"os"
	"sort"
	"sync"

	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/logger"
)

// Sentinal error patterns.
const (
	InvalidPath            = "media: invalid path: %v"
	AlreadyMounted         = "media: %v: already mounted"
	NotMounted             = "media: %v: not mounted"
	UnsupportedImageFormat = "media: unsupported image format: %v"
	NoEmulation            = "media: no emulation"
)

type mount struct {
	// the path given to Mount()
	path string

	// the unpacked image if path is an archive. empty otherwise
	cache string
}

// Binder mounts images in the slots of an emulation.
type Binder struct {
	target emulation.Target
	types  *filetypes.Registry
	perm   logger.Permission

	crit     sync.Mutex
	slots    map[emulation.SlotID]mount
	cacheDir string
}

// NewBinder is the preferred method of initialisation for the Binder type.
func NewBinder(target emulation.Target, types *filetypes.Registry) *Binder {
	return &Binder{
		target: target,
		types:  types,
		perm:   logger.Allow,
		slots:  make(map[emulation.SlotID]mount),
	}
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (bnd *Binder) SetLogPermission(perm logger.Permission) {
	bnd.perm = perm
}

// SetCacheDir sets the directory in which images unpacked from archives are
// stored. The system's temporary directory is used by default.
func (bnd *Binder) SetCacheDir(dir string) {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()
	bnd.cacheDir = dir
}

// Mount the image at path in the slot.
func (bnd *Binder) Mount(path string, slot emulation.SlotID) error {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()

	if _, ok := bnd.slots[slot]; ok {
		return curated.Errorf(AlreadyMounted, slot)
	}

	archive := bnd.types.IsArchive(path)
	if !archive && !bnd.types.IsDiskImage(path) {
		return curated.Errorf(InvalidPath, "unrecognised file extension")
	}

	fi, err := os.Stat(path)
	if err != nil {
		return curated.Errorf(InvalidPath, err)
	}
	if !fi.Mode().IsRegular() {
		return curated.Errorf(InvalidPath, "not a file")
	}

	emu, ok := bnd.target.Emulation()
	if !ok {
		return curated.Errorf(NoEmulation)
	}

	m := mount{path: path}
	image := path

	if archive {
		m.cache, err = unpack(path, bnd.types, bnd.cacheDir)
		if err != nil {
			return curated.Errorf(UnsupportedImageFormat, err)
		}
		image = m.cache
	}

	if err := emu.MountImage(slot, image); err != nil {
		if m.cache != "" {
			_ = os.Remove(m.cache)
		}
		return curated.Errorf(UnsupportedImageFormat, err)
	}

	bnd.slots[slot] = m
	logger.Logf(bnd.perm, "media", "mounted %s in %s", path, slot)

	return nil
}

// Unmount the image in the slot.
func (bnd *Binder) Unmount(slot emulation.SlotID) error {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()
	return bnd.unmount(slot)
}

// must be called with the critical section locked.
func (bnd *Binder) unmount(slot emulation.SlotID) error {
	m, ok := bnd.slots[slot]
	if !ok {
		return curated.Errorf(NotMounted, slot)
	}

	// if the emulation has gone then so has the image
	if emu, ok := bnd.target.Emulation(); ok {
		if err := emu.UnmountImage(slot); err != nil {
			return curated.Errorf("media: %v: %v", slot, err)
		}
	}

	delete(bnd.slots, slot)
	if m.cache != "" {
		if err := os.Remove(m.cache); err != nil {
			logger.Logf(bnd.perm, "media", "removing cache file: %v", err)
		}
	}

	logger.Logf(bnd.perm, "media", "unmounted %s from %s", m.path, slot)

	return nil
}

// UnmountAll unmounts every mounted slot. Returns the first error
// encountered but every slot is tried.
func (bnd *Binder) UnmountAll() error {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()

	var firstErr error
	for _, slot := range bnd.slotList() {
		if err := bnd.unmount(slot); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Mounted returns the path of the image mounted in the slot.
func (bnd *Binder) Mounted(slot emulation.SlotID) (string, bool) {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()
	m, ok := bnd.slots[slot]
	return m.path, ok
}

// Slots returns the list of mounted slots in alphabetical order.
func (bnd *Binder) Slots() []emulation.SlotID {
	bnd.crit.Lock()
	defer bnd.crit.Unlock()
	return bnd.slotList()
}

// must be called with the critical section locked.
func (bnd *Binder) slotList() []emulation.SlotID {
	l := make([]emulation.SlotID, 0, len(bnd.slots))
	for s := range bnd.slots {
		l = append(l, s)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i] < l[j]
	})
	return l
}
