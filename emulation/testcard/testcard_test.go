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

package testcard_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/test"
)

func TestFrames(t *testing.T) {
	m := testcard.NewMachine(70, 10)

	f := m.LatestFrame()
	test.ExpectSuccess(t, f.IsEmpty())

	f1 := m.Step()
	test.ExpectEquality(t, f1.Seq, uint64(1))
	test.ExpectEquality(t, m.LatestFrame().Seq, f1.Seq)

	// marker is in the first column of the first frame
	test.ExpectEquality(t, f1.Image.RGBAAt(0, 0).R, uint8(0xff))
	test.ExpectEquality(t, f1.Image.RGBAAt(1, 0).R, uint8(0xc0))

	f2 := m.Step()
	test.ExpectEquality(t, f2.Seq, uint64(2))
	test.ExpectEquality(t, f2.Image.RGBAAt(1, 0).R, uint8(0xff))

	// the previous frame is not changed by Step()
	test.ExpectEquality(t, f1.Image.RGBAAt(1, 0).R, uint8(0xc0))
}

func TestCapsLockLED(t *testing.T) {
	m := testcard.NewMachine(8, 8)

	caps := emulation.InputEvent{Kind: emulation.KeyDown, Key: emulation.KeyCapsLock}
	test.ExpectSuccess(t, m.SubmitInputEvent(caps))
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LEDCapsLock)

	test.ExpectSuccess(t, m.SubmitInputEvent(caps))
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LED(0))

	// slow keyboard controller
	m.SetLEDDelay(2)
	m.SetKeyboardLEDs(emulation.LEDNumLock)
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LED(0))
	m.Step()
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LED(0))
	m.Step()
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LEDNumLock)

	// controller that never acknowledges
	m.SetLEDDelay(testcard.LEDNeverAcknowledge)
	test.ExpectSuccess(t, m.SubmitInputEvent(caps))
	for i := 0; i < 10; i++ {
		m.Step()
	}
	test.ExpectEquality(t, m.KeyboardLEDs(), emulation.LEDNumLock)

	test.ExpectEquality(t, len(m.Events()), 3)
	m.ClearEvents()
	test.ExpectEquality(t, len(m.Events()), 0)

	test.ExpectFailure(t, m.SubmitInputEvent(emulation.InputEvent{Kind: emulation.MouseDown, Button: 8}))
}

func TestMount(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.dsk")
	good := filepath.Join(dir, "good.dsk")
	test.DemandSuccess(t, os.WriteFile(empty, nil, 0600))
	test.DemandSuccess(t, os.WriteFile(good, make([]byte, 256), 0600))

	m := testcard.NewMachine(8, 8)
	slot := emulation.NewSlotID("disk", "0")

	test.ExpectFailure(t, m.MountImage(slot, empty))
	test.ExpectFailure(t, m.MountImage(slot, filepath.Join(dir, "missing.dsk")))

	m.SetMaxImageSize(128)
	test.ExpectFailure(t, m.MountImage(slot, good))
	m.SetMaxImageSize(testcard.DefaultMaxImageSize)

	test.ExpectSuccess(t, m.MountImage(slot, good))
	p, ok := m.Mounted(slot)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, p, good)

	test.ExpectSuccess(t, m.UnmountImage(slot))
	test.ExpectFailure(t, m.UnmountImage(slot))

	mnt, unmnt := m.MountCalls()
	test.ExpectEquality(t, mnt, 4)
	test.ExpectEquality(t, unmnt, 2)
}

func TestAudio(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	var src emulation.AudioSource = m

	buf := make([]float32, 11)
	n := src.ReadAudio(buf)
	test.ExpectEquality(t, n, 10)

	for i := 0; i < n; i += 2 {
		test.ExpectEquality(t, buf[i], buf[i+1])
		test.ExpectSuccess(t, buf[i] <= 0.25 && buf[i] >= -0.25)
	}
	test.ExpectEquality(t, src.SampleRate(), 48000)
}

func TestDestroy(t *testing.T) {
	m := testcard.NewMachine(8, 8)
	m.Step()

	var d emulation.Destroyer = m
	d.Destroy()
	test.ExpectSuccess(t, m.Destroyed())
	test.ExpectSuccess(t, m.LatestFrame().IsEmpty())
}
