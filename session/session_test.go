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

package session_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/environment"
	"github.com/openemulator/syncore/frameclock"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
	"github.com/openemulator/syncore/registry"
	"github.com/openemulator/syncore/session"
	"github.com/openemulator/syncore/test"
	"github.com/openemulator/syncore/userinput"
)

type host struct{}

func (h host) ViewSize() canvas.Size {
	return canvas.Size{W: 64, H: 48}
}

func (h host) PixelDensity() canvas.Size {
	return canvas.Size{W: 1, H: 1}
}

type output struct{}

func (o output) Open(int, int) error   { return nil }
func (o output) Queue([]float32) error { return nil }
func (o output) Close()                {}

type notices struct {
	crit sync.Mutex
	list []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice) error {
	n.crit.Lock()
	defer n.crit.Unlock()
	n.list = append(n.list, notice)
	return nil
}

func (n *notices) has(notice notifications.Notice) bool {
	n.crit.Lock()
	defer n.crit.Unlock()
	for _, l := range n.list {
		if l == notice {
			return true
		}
	}
	return false
}

func newPreferences(t *testing.T) *session.Preferences {
	t.Helper()
	p, err := session.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	return p
}

type fixture struct {
	reg *registry.Registry
	m   *testcard.Machine
	win *session.Window
	n   *notices
}

func newFixture(t *testing.T, p *session.Preferences) *fixture {
	t.Helper()

	env := environment.NewEnvironment("test")
	env.Logging.Set(false)

	f := &fixture{
		reg: registry.NewRegistry(),
		m:   testcard.NewMachine(16, 16),
		n:   &notices{},
	}
	f.reg.SetLogPermission(logger.Deny)
	f.m.Step()
	test.DemandSuccess(t, f.reg.Add(f.m))

	var err error
	f.win, err = session.NewWindow(env, f.reg, f.m, session.Config{
		Kind:   canvas.KindDisplay,
		Host:   host{},
		Device: &canvas.SoftDevice{},
		Rate:   frameclock.FixedRate(100),
		KeyMap: userinput.HIDKeyMap(),
		Output: output{},
		Notify: f.n,
	}, p)
	test.DemandSuccess(t, err)
	t.Cleanup(f.win.Close)

	return f
}

func TestPreferences(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "preferences")

	p, err := session.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.MaxSkip.Get().(int), frameclock.DefaultMaxSkip)
	test.ExpectEquality(t, p.PasteInterval.Get().(int), 25)
	test.ExpectEquality(t, p.Letterbox.Get().(bool), true)
	test.ExpectSuccess(t, p.FileTypes().IsDiskImage("game.woz"))

	test.DemandSuccess(t, p.DiskImages.Set(".dsk, .xyz"))
	test.DemandSuccess(t, p.MaxSkip.Set(8))
	test.DemandSuccess(t, p.Save())

	p, err = session.NewPreferencesFromFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.MaxSkip.Get().(int), 8)
	test.ExpectSuccess(t, p.FileTypes().IsDiskImage("game.xyz"))
	test.ExpectFailure(t, p.FileTypes().IsDiskImage("game.woz"))

	p.SetDefaults()
	test.ExpectEquality(t, p.MaxSkip.Get().(int), frameclock.DefaultMaxSkip)
	test.ExpectSuccess(t, strings.Contains(p.String(), "frameclock.maxSkip :: 4"))
}

func TestBadPreferences(t *testing.T) {
	p := newPreferences(t)
	test.DemandSuccess(t, p.RecordRate.Set(0))

	reg := registry.NewRegistry()
	reg.SetLogPermission(logger.Deny)
	m := testcard.NewMachine(8, 8)
	test.DemandSuccess(t, reg.Add(m))

	_, err := session.NewWindow(environment.NewEnvironment("test"), reg, m, session.Config{}, p)
	test.ExpectFailure(t, err)
}

func TestUnregisteredEmulation(t *testing.T) {
	reg := registry.NewRegistry()
	m := testcard.NewMachine(8, 8)

	_, err := session.NewWindow(environment.NewEnvironment("test"), reg, m, session.Config{}, newPreferences(t))
	test.ExpectSuccess(t, curated.Is(err, registry.NotRegistered))
}

func TestWindowTicks(t *testing.T) {
	f := newFixture(t, newPreferences(t))

	test.DemandSuccess(t, f.win.Open())
	test.ExpectSuccess(t, test.Eventually(t, 2*time.Second, func() bool {
		return f.win.Presenter.Stats().Ticks >= 3
	}))

	// one frame was produced so it was uploaded once and then presented
	// again on every following tick
	stats := f.win.Presenter.Stats()
	test.ExpectEquality(t, stats.Uploads, uint64(1))

	f.win.Close()
	test.ExpectFailure(t, f.win.Clock.IsRunning())

	// closing the window does not remove the emulation
	test.ExpectEquality(t, f.reg.Len(), 1)
	test.ExpectFailure(t, f.m.Destroyed())
	_, ok := f.win.Emulation()
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, curated.Is(f.win.Open(), session.Closed))
}

func TestEmulationRemoved(t *testing.T) {
	f := newFixture(t, newPreferences(t))

	img := filepath.Join(t.TempDir(), "game.dsk")
	test.DemandSuccess(t, os.WriteFile(img, make([]byte, 256), 0o644))
	test.DemandSuccess(t, f.win.Media.Mount(img, emulation.NewSlotID("disk", "0")))

	test.DemandSuccess(t, f.win.Open())
	test.ExpectSuccess(t, test.Eventually(t, 2*time.Second, func() bool {
		return f.win.Presenter.Stats().Ticks >= 1
	}))

	f.reg.Remove(f.m)

	test.ExpectSuccess(t, f.win.IsDetached())
	test.ExpectFailure(t, f.win.Clock.IsRunning())
	test.ExpectSuccess(t, f.n.has(notifications.NotifyEmulationRemoved))
	test.ExpectSuccess(t, f.m.Destroyed())

	// requests after removal do not reach the emulation
	f.m.ClearEvents()
	test.ExpectSuccess(t, f.win.Input.KeyDown(0x04))
	test.ExpectEquality(t, len(f.m.Events()), 0)

	test.ExpectSuccess(t, curated.Is(f.win.Open(), session.Detached))
	test.ExpectSuccess(t, curated.Is(f.win.OpenRecording(filepath.Join(t.TempDir(), "out.wav")), session.Detached))

	// closing a detached window forgets the mounted media
	f.win.Close()
	test.ExpectEquality(t, len(f.win.Media.Slots()), 0)
}

func TestRecordingFromEmulation(t *testing.T) {
	f := newFixture(t, newPreferences(t))

	pth := filepath.Join(t.TempDir(), "capture.wav")
	test.DemandSuccess(t, f.win.OpenRecording(pth))
	test.DemandSuccess(t, f.win.Streams.Recording.Record())
	test.DemandSuccess(t, f.win.Open())

	test.ExpectSuccess(t, test.Eventually(t, 2*time.Second, func() bool {
		return f.win.Streams.Recording.Size() > 0
	}))

	f.win.Streams.Recording.Stop()
	size := f.win.Streams.Recording.Size()
	test.ExpectSuccess(t, size > 0)

	// the recorder is no longer fed after it is stopped
	time.Sleep(50 * time.Millisecond)
	test.ExpectEquality(t, f.win.Streams.Recording.Size(), size)
}

func TestDumpState(t *testing.T) {
	f := newFixture(t, newPreferences(t))

	st := f.win.State()
	test.ExpectEquality(t, st.Canvas.Kind, canvas.KindDisplay.String())
	test.ExpectEquality(t, st.Playback.State, "idle")
	test.ExpectFailure(t, st.Detached)

	var b bytes.Buffer
	f.win.DumpState(&b)
	test.ExpectSuccess(t, strings.Contains(b.String(), "digraph"))
}
