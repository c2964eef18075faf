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

package userinput

import (
	"fmt"
	"sync"
	"time"

	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/logger"
)

// Modifier is a bitset of the host's modifier flags.
type Modifier uint8

// List of modifier flags.
const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModGUI

	// the state of the host's Caps Lock toggle
	ModCapsLock
)

// the keys pressed and released when a modifier flag changes.
var modifierKeys = []struct {
	mod   Modifier
	left  emulation.Key
	right emulation.Key
}{
	{mod: ModShift, left: emulation.KeyLeftShift, right: emulation.KeyRightShift},
	{mod: ModControl, left: emulation.KeyLeftControl, right: emulation.KeyRightControl},
	{mod: ModAlt, left: emulation.KeyLeftAlt, right: emulation.KeyRightAlt},
	{mod: ModGUI, left: emulation.KeyLeftGUI, right: emulation.KeyRightGUI},
}

// Indicator is implemented by hosts that can show the keyboard LED state.
type Indicator interface {
	ShowLEDs(leds emulation.LED)
}

// Router sends host input to an emulation.
type Router struct {
	keymap *KeyMap
	target emulation.Target
	perm   logger.Permission

	crit sync.Mutex

	// logical keys currently held down. all logical keys are less than 256
	pressed [256]bool

	modifiers Modifier
	buttons   [emulation.MouseButtons]bool

	// LED state as far as the host is concerned
	hostLEDs        emulation.LED
	notSynchronized bool
	unsyncedSince   time.Time
	resyncTimeout   time.Duration
	indicator       Indicator

	paste paster
}

// NewRouter is the preferred method of initialisation for the Router type.
func NewRouter(keymap *KeyMap, target emulation.Target) *Router {
	r := &Router{
		keymap: keymap,
		target: target,
		perm:   logger.Allow,
	}
	r.paste.interval.Store(int64(DefaultPasteInterval))
	return r
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (r *Router) SetLogPermission(perm logger.Permission) {
	r.perm = perm
}

// SetIndicator sets the host's LED indicator. Can be nil.
func (r *Router) SetIndicator(ind Indicator) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.indicator = ind
}

// SetLEDResyncTimeout sets how long the LEDs can be out of synchronisation
// before the host gives up waiting and adopts the emulation's LED state. A
// value of zero means wait indefinitely.
func (r *Router) SetLEDResyncTimeout(d time.Duration) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.resyncTimeout = d
}

// MapKeyCode returns the logical key for a host code. Returns false if the
// code is not mapped.
func (r *Router) MapKeyCode(code uint8) (emulation.Key, bool) {
	return r.keymap.Lookup(code)
}

// send an event to the emulation. must be called with the critical section
// locked.
func (r *Router) submit(ev emulation.InputEvent) error {
	emu, ok := r.target.Emulation()
	if !ok {
		return nil
	}
	if err := emu.SubmitInputEvent(ev); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

// must be called with the critical section locked.
func (r *Router) press(key emulation.Key) error {
	if r.pressed[key] {
		return nil
	}
	r.pressed[key] = true
	return r.submit(emulation.InputEvent{Kind: emulation.KeyDown, Key: key})
}

// must be called with the critical section locked.
func (r *Router) release(key emulation.Key) error {
	if !r.pressed[key] {
		return nil
	}
	r.pressed[key] = false
	return r.submit(emulation.InputEvent{Kind: emulation.KeyUp, Key: key})
}

// must be called with the critical section locked.
func (r *Router) toggleCapsLock() {
	r.hostLEDs ^= emulation.LEDCapsLock
	r.notSynchronized = true
	r.unsyncedSince = time.Now()
}

// KeyDown forwards a key press. Unmapped codes and keys that are already held
// down (auto-repeat) are ignored.
func (r *Router) KeyDown(code uint8) error {
	key, ok := r.keymap.Lookup(code)
	if !ok {
		return nil
	}

	r.crit.Lock()
	defer r.crit.Unlock()

	if r.pressed[key] {
		return nil
	}
	if key == emulation.KeyCapsLock {
		r.toggleCapsLock()
	}
	return r.press(key)
}

// KeyUp forwards a key release. Unmapped codes and keys that are not held
// down are ignored.
func (r *Router) KeyUp(code uint8) error {
	key, ok := r.keymap.Lookup(code)
	if !ok {
		return nil
	}

	r.crit.Lock()
	defer r.crit.Unlock()
	return r.release(key)
}

// UpdateModifiers compares the host's modifier flags with the previous flags
// and sends a press or release of the corresponding key for every change. A
// change to the Caps Lock flag sends a press followed by a release.
//
// Keys pressed because of a modifier flag are the left-hand keys. Clearing a
// modifier flag releases both the left and right-hand keys.
func (r *Router) UpdateModifiers(mods Modifier) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	changed := r.modifiers ^ mods
	r.modifiers = mods

	for _, m := range modifierKeys {
		if changed&m.mod != m.mod {
			continue
		}
		if mods&m.mod == m.mod {
			if !r.pressed[m.left] && !r.pressed[m.right] {
				if err := r.press(m.left); err != nil {
					return err
				}
			}
		} else {
			if err := r.release(m.left); err != nil {
				return err
			}
			if err := r.release(m.right); err != nil {
				return err
			}
		}
	}

	if changed&ModCapsLock == ModCapsLock {
		r.toggleCapsLock()
		if err := r.press(emulation.KeyCapsLock); err != nil {
			return err
		}
		if err := r.release(emulation.KeyCapsLock); err != nil {
			return err
		}
	}

	return nil
}

// ReleaseAll releases every key and mouse button held down. Should be called
// when the host loses the keyboard focus because the release events will
// not arrive.
func (r *Router) ReleaseAll() error {
	r.crit.Lock()
	defer r.crit.Unlock()

	var firstErr error
	for k := range r.pressed {
		if err := r.release(emulation.Key(k)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for b := range r.buttons {
		if r.buttons[b] {
			r.buttons[b] = false
			if err := r.submit(emulation.InputEvent{Kind: emulation.MouseUp, Button: b}); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	// caps lock is a toggle and survives the loss of focus
	r.modifiers &= ModCapsLock

	return firstErr
}

// SetLEDs requests that the emulation change its keyboard LEDs. The LEDs are
// not synchronised until the emulation reports the same state.
func (r *Router) SetLEDs(leds emulation.LED) {
	r.crit.Lock()
	defer r.crit.Unlock()

	r.hostLEDs = leds
	r.notSynchronized = true
	r.unsyncedSince = time.Now()

	if emu, ok := r.target.Emulation(); ok {
		emu.SetKeyboardLEDs(leds)
	}
}

// SynchronizeLEDs compares the host LED state with the emulation's LED state.
// Should be called once per tick.
func (r *Router) SynchronizeLEDs() {
	r.crit.Lock()
	defer r.crit.Unlock()

	emu, ok := r.target.Emulation()
	if !ok {
		return
	}
	leds := emu.KeyboardLEDs()

	if r.notSynchronized {
		if leds == r.hostLEDs {
			r.notSynchronized = false
			return
		}
		if r.resyncTimeout > 0 && time.Since(r.unsyncedSince) > r.resyncTimeout {
			logger.Logf(r.perm, "input", "LEDs not acknowledged after %v. adopting emulation state (%s)", r.resyncTimeout, leds)
			r.notSynchronized = false
			r.adoptLEDs(leds)
		}
		return
	}

	// the emulation has changed its LEDs without being asked
	if leds != r.hostLEDs {
		r.adoptLEDs(leds)
	}
}

// must be called with the critical section locked.
func (r *Router) adoptLEDs(leds emulation.LED) {
	r.hostLEDs = leds
	if r.indicator != nil {
		r.indicator.ShowLEDs(leds)
	}
}

// LEDsSynchronized returns false if the host is waiting for the emulation to
// acknowledge a change of LED state.
func (r *Router) LEDsSynchronized() bool {
	r.crit.Lock()
	defer r.crit.Unlock()
	return !r.notSynchronized
}

// HostLEDs returns the LED state as the host understands it.
func (r *Router) HostLEDs() emulation.LED {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.hostLEDs
}

// MouseButton forwards a mouse button press or release. Events that do not
// change the state of the button are ignored.
func (r *Router) MouseButton(button int, down bool) error {
	if button < 0 || button >= emulation.MouseButtons {
		return fmt.Errorf("input: unsupported mouse button (%d)", button)
	}

	r.crit.Lock()
	defer r.crit.Unlock()

	if r.buttons[button] == down {
		return nil
	}
	r.buttons[button] = down

	kind := emulation.MouseUp
	if down {
		kind = emulation.MouseDown
	}
	return r.submit(emulation.InputEvent{Kind: kind, Button: button})
}

// MouseMotion forwards relative mouse movement.
func (r *Router) MouseMotion(dx int, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.submit(emulation.InputEvent{Kind: emulation.MouseMotion, X: dx, Y: dy})
}

// MouseWheel forwards scroll wheel movement.
func (r *Router) MouseWheel(dx int, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.submit(emulation.InputEvent{Kind: emulation.MouseWheel, X: dx, Y: dy})
}
