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
	"sync"
	"sync/atomic"

	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
)

// Sentinal error patterns.
const (
	DuplicateEmulation = "registry: emulation is already registered"
	NotRegistered      = "registry: emulation is not registered"
	NilEmulation       = "registry: nil emulation"
)

// Chrome is the part of the host UI affected by menu bar suppression.
type Chrome interface {
	SetMenuBarVisible(visible bool)
}

// Ref is a relation between a dependent and an emulation. The zero value
// refers to nothing. Ref implements the emulation.Target interface.
type Ref struct {
	reg *Registry
	id  uint64
}

// Emulation implements the emulation.Target interface.
func (ref Ref) Emulation() (emulation.Emulation, bool) {
	if ref.reg == nil {
		return nil, false
	}
	return ref.reg.Lookup(ref)
}

type binding struct {
	emu emulation.Emulation
	dep notifications.Notify
}

// Registry of running emulations.
type Registry struct {
	perm logger.Permission

	crit       sync.Mutex
	emulations []emulation.Emulation
	bindings   map[uint64]binding
	nextID     uint64
	observers  []notifications.Notify

	// menu bar suppression has its own critical section so that the chrome
	// can query the registry while it is being changed
	menuCrit sync.Mutex
	menu     atomic.Int32
	chrome   Chrome
}

// NewRegistry is the preferred method of initialisation for the Registry
// type.
func NewRegistry() *Registry {
	return &Registry{
		perm:     logger.Allow,
		bindings: make(map[uint64]binding),
	}
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (reg *Registry) SetLogPermission(perm logger.Permission) {
	reg.perm = perm
}

// Observe adds a dependent that is sent NotifyEmulationAdded and
// NotifyEmulationRemoved for every emulation. Observers are also told about
// menu bar suppression changes.
func (reg *Registry) Observe(obs notifications.Notify) {
	reg.crit.Lock()
	defer reg.crit.Unlock()
	reg.observers = append(reg.observers, obs)
}

// Add an emulation to the registry. Adding an emulation that is already
// registered fails with DuplicateEmulation.
func (reg *Registry) Add(emu emulation.Emulation) error {
	if emu == nil {
		return curated.Errorf(NilEmulation)
	}

	reg.crit.Lock()
	if reg.index(emu) >= 0 {
		reg.crit.Unlock()
		return curated.Errorf(DuplicateEmulation)
	}
	reg.emulations = append(reg.emulations, emu)
	observers := append([]notifications.Notify{}, reg.observers...)
	n := len(reg.emulations)
	reg.crit.Unlock()

	logger.Logf(reg.perm, "registry", "emulation added (%d registered)", n)
	reg.send(observers, notifications.NotifyEmulationAdded)

	return nil
}

// Remove an emulation from the registry. Every dependent bound to the
// emulation is sent NotifyEmulationRemoved and the binding is dissolved. The
// emulation is then destroyed if it implements emulation.Destroyer.
//
// Removing an emulation that is not registered has no effect.
func (reg *Registry) Remove(emu emulation.Emulation) {
	reg.crit.Lock()
	i := reg.index(emu)
	if i < 0 {
		reg.crit.Unlock()
		return
	}
	reg.emulations = append(reg.emulations[:i], reg.emulations[i+1:]...)

	var deps []notifications.Notify
	for id, b := range reg.bindings {
		if b.emu == emu {
			if b.dep != nil {
				deps = append(deps, b.dep)
			}
			delete(reg.bindings, id)
		}
	}
	observers := append([]notifications.Notify{}, reg.observers...)
	n := len(reg.emulations)
	reg.crit.Unlock()

	// dependents are told before the emulation is destroyed. from this point
	// any Ref bound to the emulation resolves to nothing
	reg.send(deps, notifications.NotifyEmulationRemoved)
	reg.send(observers, notifications.NotifyEmulationRemoved)

	if d, ok := emu.(emulation.Destroyer); ok {
		d.Destroy()
	}

	logger.Logf(reg.perm, "registry", "emulation removed (%d registered)", n)
}

// Len returns the number of registered emulations.
func (reg *Registry) Len() int {
	reg.crit.Lock()
	defer reg.crit.Unlock()
	return len(reg.emulations)
}

// Contains returns true if the emulation is registered.
func (reg *Registry) Contains(emu emulation.Emulation) bool {
	reg.crit.Lock()
	defer reg.crit.Unlock()
	return reg.index(emu) >= 0
}

// Emulations returns the registered emulations in the order they were added.
func (reg *Registry) Emulations() []emulation.Emulation {
	reg.crit.Lock()
	defer reg.crit.Unlock()
	return append([]emulation.Emulation{}, reg.emulations...)
}

// Bind a dependent to a registered emulation. The dependent can be nil if it
// does not need to be told about removal.
func (reg *Registry) Bind(emu emulation.Emulation, dep notifications.Notify) (Ref, error) {
	reg.crit.Lock()
	defer reg.crit.Unlock()

	if reg.index(emu) < 0 {
		return Ref{}, curated.Errorf(NotRegistered)
	}

	reg.nextID++
	reg.bindings[reg.nextID] = binding{emu: emu, dep: dep}

	return Ref{reg: reg, id: reg.nextID}, nil
}

// Unbind dissolves the relation. The dependent will not be told when the
// emulation is removed. Has no effect if the Ref is not bound.
func (reg *Registry) Unbind(ref Ref) {
	if ref.reg != reg {
		return
	}

	reg.crit.Lock()
	defer reg.crit.Unlock()
	delete(reg.bindings, ref.id)
}

// Lookup resolves a Ref. Returns false if the Ref has been unbound or if the
// emulation has been removed.
func (reg *Registry) Lookup(ref Ref) (emulation.Emulation, bool) {
	if ref.reg != reg {
		return nil, false
	}

	reg.crit.Lock()
	defer reg.crit.Unlock()

	b, ok := reg.bindings[ref.id]
	if !ok {
		return nil, false
	}
	return b.emu, true
}

// must be called with the critical section locked.
func (reg *Registry) index(emu emulation.Emulation) int {
	for i, e := range reg.emulations {
		if e == emu {
			return i
		}
	}
	return -1
}

// send notice to every dependent in the list. errors are logged.
func (reg *Registry) send(deps []notifications.Notify, notice notifications.Notice) {
	for _, d := range deps {
		if err := d.Notify(notice); err != nil {
			logger.Logf(reg.perm, "registry", "%s: %v", notice, err)
		}
	}
}
