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

package userinput_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/userinput"
	"github.com/openemulator/syncore/test"
)

func newRouter(m *testcard.Machine) *userinput.Router {
	return userinput.NewRouter(userinput.HIDKeyMap(), emulation.TargetFunc(func() (emulation.Emulation, bool) {
		return m, true
	}))
}

type indicator struct {
	crit sync.Mutex
	leds []emulation.LED
}

func (ind *indicator) ShowLEDs(leds emulation.LED) {
	ind.crit.Lock()
	defer ind.crit.Unlock()
	ind.leds = append(ind.leds, leds)
}

func keyDown(k emulation.Key) emulation.InputEvent {
	return emulation.InputEvent{Kind: emulation.KeyDown, Key: k}
}

func keyUp(k emulation.Key) emulation.InputEvent {
	return emulation.InputEvent{Kind: emulation.KeyUp, Key: k}
}

func expectEvents(t *testing.T, m *testcard.Machine, expected ...emulation.InputEvent) {
	t.Helper()
	ev := m.Events()
	if !test.ExpectEquality(t, len(ev), len(expected)) {
		return
	}
	for i := range ev {
		test.ExpectEquality(t, ev[i], expected[i], i)
	}
}

func TestKeyMaps(t *testing.T) {
	hid := userinput.HIDKeyMap()
	k, ok := hid.Lookup(0x04)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, emulation.KeyA)
	k, ok = hid.Lookup(0xe1)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, emulation.KeyLeftShift)

	for _, c := range []uint8{0x00, 0x01, 0x03, 0x80, 0xff} {
		_, ok = hid.Lookup(c)
		test.ExpectFailure(t, ok, c)
	}

	mac := userinput.MacKeyMap()
	k, ok = mac.Lookup(0x00)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, emulation.KeyA)
	k, _ = mac.Lookup(0x39)
	test.ExpectEquality(t, k, emulation.KeyCapsLock)
	k, _ = mac.Lookup(0x7e)
	test.ExpectEquality(t, k, emulation.KeyArrowUp)
	_, ok = mac.Lookup(0xff)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, mac.Len(), 106)
}

func TestUnmappedCodes(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)

	for c := 0; c < 256; c++ {
		if _, ok := r.MapKeyCode(uint8(c)); ok {
			continue
		}
		test.ExpectSuccess(t, r.KeyDown(uint8(c)))
		test.ExpectSuccess(t, r.KeyUp(uint8(c)))
	}
	expectEvents(t, m)
}

func TestKeys(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)

	test.ExpectSuccess(t, r.KeyDown(0x04))

	// auto-repeat is dropped
	test.ExpectSuccess(t, r.KeyDown(0x04))
	test.ExpectSuccess(t, r.KeyUp(0x04))

	// release without a press is dropped
	test.ExpectSuccess(t, r.KeyUp(0x05))

	expectEvents(t, m, keyDown(emulation.KeyA), keyUp(emulation.KeyA))
}

func TestModifiers(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)

	// a lone shift tap that the host only reports as flag changes
	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModShift))
	test.ExpectSuccess(t, r.UpdateModifiers(0))
	expectEvents(t, m, keyDown(emulation.KeyLeftShift), keyUp(emulation.KeyLeftShift))
	m.ClearEvents()

	// the right-hand key has been pressed as a key event. the flag change
	// must not add a press of the left-hand key but clearing the flag
	// releases the right-hand key
	test.ExpectSuccess(t, r.KeyDown(0xe5))
	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModShift|userinput.ModControl))
	test.ExpectSuccess(t, r.UpdateModifiers(0))
	expectEvents(t, m,
		keyDown(emulation.KeyRightShift),
		keyDown(emulation.KeyLeftControl),
		keyUp(emulation.KeyRightShift),
		keyUp(emulation.KeyLeftControl),
	)
}

func TestCapsLock(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	test.ExpectSuccess(t, r.LEDsSynchronized())

	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModCapsLock))
	expectEvents(t, m, keyDown(emulation.KeyCapsLock), keyUp(emulation.KeyCapsLock))
	test.ExpectEquality(t, r.HostLEDs(), emulation.LEDCapsLock)
	test.ExpectFailure(t, r.LEDsSynchronized())

	// the test card acknowledges immediately
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())

	// caps lock reported as a key
	test.ExpectSuccess(t, r.KeyDown(0x39))
	test.ExpectSuccess(t, r.KeyUp(0x39))
	test.ExpectEquality(t, r.HostLEDs(), emulation.LED(0))
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LED(0))
}

func TestLEDRace(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	m.SetLEDDelay(3)
	r := newRouter(m)
	var ind indicator
	r.SetIndicator(&ind)

	// the keyboard controller is slower than the host
	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModCapsLock))
	for i := 0; i < 2; i++ {
		m.Step()
		r.SynchronizeLEDs()
		test.ExpectFailure(t, r.LEDsSynchronized(), i)
	}

	m.Step()
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LEDCapsLock)

	// the user toggles caps lock twice before the keyboard controller has
	// acknowledged the first toggle
	test.ExpectSuccess(t, r.UpdateModifiers(0))
	m.Step()
	r.SynchronizeLEDs()
	test.ExpectFailure(t, r.LEDsSynchronized())
	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModCapsLock))
	test.ExpectEquality(t, r.HostLEDs(), emulation.LEDCapsLock)

	// the emulated LED never changed so the states already agree
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())

	// the host indicator was never overridden while waiting
	test.ExpectEquality(t, len(ind.leds), 0)
}

func TestLEDResyncTimeout(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	m.SetLEDDelay(testcard.LEDNeverAcknowledge)
	r := newRouter(m)
	var ind indicator
	r.SetIndicator(&ind)

	// without a timeout the router waits indefinitely
	r.SetLEDs(emulation.LEDNumLock)
	time.Sleep(5 * time.Millisecond)
	r.SynchronizeLEDs()
	test.ExpectFailure(t, r.LEDsSynchronized())

	r.SetLEDResyncTimeout(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())
	test.ExpectEquality(t, r.HostLEDs(), emulation.LED(0))
	test.DemandEquality(t, len(ind.leds), 1)
	test.ExpectEquality(t, ind.leds[0], emulation.LED(0))
}

func TestEmulationLEDs(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	var ind indicator
	r.SetIndicator(&ind)

	// the emulation changes its LEDs without being asked
	m.SetKeyboardLEDs(emulation.LEDScrollLock)
	r.SynchronizeLEDs()
	test.ExpectSuccess(t, r.LEDsSynchronized())
	test.ExpectEquality(t, r.HostLEDs(), emulation.LEDScrollLock)
	test.DemandEquality(t, len(ind.leds), 1)
	test.ExpectEquality(t, ind.leds[0], emulation.LEDScrollLock)

	// no change, no update
	r.SynchronizeLEDs()
	test.ExpectEquality(t, len(ind.leds), 1)
}

func TestMouse(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)

	test.ExpectSuccess(t, r.MouseButton(0, true))
	test.ExpectSuccess(t, r.MouseButton(0, true))
	test.ExpectSuccess(t, r.MouseMotion(3, -2))
	test.ExpectSuccess(t, r.MouseMotion(0, 0))
	test.ExpectSuccess(t, r.MouseWheel(0, 1))
	test.ExpectSuccess(t, r.MouseButton(0, false))
	test.ExpectFailure(t, r.MouseButton(8, true))

	expectEvents(t, m,
		emulation.InputEvent{Kind: emulation.MouseDown, Button: 0},
		emulation.InputEvent{Kind: emulation.MouseMotion, X: 3, Y: -2},
		emulation.InputEvent{Kind: emulation.MouseWheel, Y: 1},
		emulation.InputEvent{Kind: emulation.MouseUp, Button: 0},
	)
}

func TestReleaseAll(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)

	test.ExpectSuccess(t, r.KeyDown(0x04))
	test.ExpectSuccess(t, r.UpdateModifiers(userinput.ModShift))
	test.ExpectSuccess(t, r.MouseButton(2, true))
	m.ClearEvents()

	test.ExpectSuccess(t, r.ReleaseAll())
	expectEvents(t, m,
		keyUp(emulation.KeyA),
		keyUp(emulation.KeyLeftShift),
		emulation.InputEvent{Kind: emulation.MouseUp, Button: 2},
	)

	// nothing left to release
	m.ClearEvents()
	test.ExpectSuccess(t, r.ReleaseAll())
	expectEvents(t, m)
}

func TestRemovedTarget(t *testing.T) {
	m := testcard.NewMachine(8, 8)

	var crit sync.Mutex
	present := true
	r := userinput.NewRouter(userinput.HIDKeyMap(), emulation.TargetFunc(func() (emulation.Emulation, bool) {
		crit.Lock()
		defer crit.Unlock()
		if !present {
			return nil, false
		}
		return m, true
	}))

	crit.Lock()
	present = false
	crit.Unlock()

	test.ExpectSuccess(t, r.KeyDown(0x04))
	test.ExpectSuccess(t, r.MouseButton(0, true))
	r.SetLEDs(emulation.LEDCapsLock)
	r.SynchronizeLEDs()
	expectEvents(t, m)
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LED(0))
}

func TestPaste(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	r.SetPasteInterval(0)

	r.Paste("aB\r\né")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))
	test.ExpectFailure(t, r.IsPasting())

	expectEvents(t, m,
		keyDown(emulation.KeyA), keyUp(emulation.KeyA),
		keyDown(emulation.KeyLeftShift), keyDown(emulation.KeyB), keyUp(emulation.KeyB), keyUp(emulation.KeyLeftShift),
		keyDown(emulation.KeyEnter), keyUp(emulation.KeyEnter),
	)
}

func TestPasteWithShiftHeld(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	r.SetPasteInterval(0)

	// left shift held by the user is not pressed again by the paste
	test.ExpectSuccess(t, r.KeyDown(0xe1))
	r.Paste("A")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))
	test.ExpectSuccess(t, r.KeyUp(0xe1))

	expectEvents(t, m,
		keyDown(emulation.KeyLeftShift),
		keyDown(emulation.KeyA), keyUp(emulation.KeyA),
		keyUp(emulation.KeyLeftShift),
	)

	// nor is it pressed while right shift is held
	m.ClearEvents()
	test.ExpectSuccess(t, r.KeyDown(0xe5))
	r.Paste("!")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))
	test.ExpectSuccess(t, r.KeyUp(0xe5))

	expectEvents(t, m,
		keyDown(emulation.KeyRightShift),
		keyDown(emulation.Key1), keyUp(emulation.Key1),
		keyUp(emulation.KeyRightShift),
	)
}

func TestPasteWithCapsLock(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	r.SetPasteInterval(0)

	r.SetLEDs(emulation.LEDCapsLock)
	r.SynchronizeLEDs()
	test.DemandSuccess(t, r.LEDsSynchronized())
	m.ClearEvents()

	// letters are typed with the shift state inverted. other keys are not
	// affected by caps lock
	r.Paste("aB1!")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))

	expectEvents(t, m,
		keyDown(emulation.KeyLeftShift), keyDown(emulation.KeyA), keyUp(emulation.KeyA), keyUp(emulation.KeyLeftShift),
		keyDown(emulation.KeyB), keyUp(emulation.KeyB),
		keyDown(emulation.Key1), keyUp(emulation.Key1),
		keyDown(emulation.KeyLeftShift), keyDown(emulation.Key1), keyUp(emulation.Key1), keyUp(emulation.KeyLeftShift),
	)
}

func TestPasteThrottle(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	r.SetPasteInterval(10 * time.Millisecond)

	start := time.Now()
	r.Paste("abcde")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))

	// four intervals between five characters at least
	test.ExpectSuccess(t, time.Since(start) >= 40*time.Millisecond)
	test.ExpectEquality(t, len(m.Events()), 10)
}

func TestCancelPaste(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	r := newRouter(m)
	r.SetPasteInterval(20 * time.Millisecond)

	r.Paste(strings.Repeat("x", 100))
	test.ExpectSuccess(t, r.IsPasting())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	test.ExpectFailure(t, r.WaitPaste(ctx))

	r.CancelPaste()
	test.ExpectFailure(t, r.IsPasting())

	n := len(m.Events())
	test.ExpectSuccess(t, n < 200)
	time.Sleep(50 * time.Millisecond)
	test.ExpectEquality(t, len(m.Events()), n)

	// a new paste after a cancellation
	r.SetPasteInterval(0)
	r.Paste("y")
	test.ExpectSuccess(t, r.WaitPaste(context.Background()))
	test.ExpectEquality(t, len(m.Events()), n+2)
}
