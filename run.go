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

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/environment"
	"github.com/openemulator/syncore/gui/sdlaudio"
	"github.com/openemulator/syncore/gui/sdlhost"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/modalflag"
	"github.com/openemulator/syncore/notifications"
	"github.com/openemulator/syncore/registry"
	"github.com/openemulator/syncore/session"
	"github.com/openemulator/syncore/statsview"
	"github.com/openemulator/syncore/userinput"
)

// how long the main thread waits for SDL events on each call to Service()
const serviceTimeout = 10 * time.Millisecond

// host is the GuiCreator for the RUN mode.
type host struct {
	win *sdlhost.Window
	svc *sdlhost.Service

	// closed when the user closes the window
	quit   chan struct{}
	closed bool
}

func (h *host) Service() {
	if !h.svc.Service(serviceTimeout) && !h.closed {
		h.closed = true
		close(h.quit)
	}
}

func (h *host) Destroy(output io.Writer) {
	h.win.Destroy()
}

func keyMap(name string) (*userinput.KeyMap, error) {
	switch strings.ToUpper(name) {
	case "HID":
		return userinput.HIDKeyMap(), nil
	case "MAC":
		return userinput.MacKeyMap(), nil
	}
	return nil, fmt.Errorf("unknown keymap: %s", name)
}

func canvasKind(name string) (canvas.Kind, error) {
	switch strings.ToLower(name) {
	case canvas.KindDisplay.String():
		return canvas.KindDisplay, nil
	case canvas.KindPaper.String():
		return canvas.KindPaper, nil
	}
	return canvas.KindDisplay, fmt.Errorf("unknown canvas: %s", name)
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	md.AdditionalHelp("Disk images listed after the flags are mounted in slots disk/0, disk/1, etc. Use -image to name the slot.")

	common := addCommonFlags(md)
	prefsFile := md.AddString("prefsfile", "", "preferences file to use instead of the default")
	kindName := md.AddString("canvas", canvas.KindDisplay.String(), "canvas kind: display, paper")
	width := md.AddInt("width", 560, "width of the emulated frame")
	height := md.AddInt("height", 384, "height of the emulated frame")
	keymapName := md.AddString("keymap", "HID", "host keyboard layout: HID, MAC")
	fullscreen := md.AddBool("fullscreen", false, "hide the menu bar and fill the screen")
	images := md.AddStringList("image", "mount disk image in slot. eg. disk/1=game.woz")
	wav := md.AddString("wav", "", "record emulation audio to wav file")
	dump := md.AddString("memviz", "", "write a graph of the session state to file on exit")

	var stats *string
	if statsview.Available() {
		stats = md.AddString("statsview", "", fmt.Sprintf("run stats server at address. eg. %s", statsview.Address))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	common.apply()

	if stats != nil && *stats != "" {
		stop, err := statsview.Launch(os.Stdout, *stats)
		if err != nil {
			return err
		}
		defer stop()
	}

	kind, err := canvasKind(*kindName)
	if err != nil {
		return err
	}

	km, err := keyMap(*keymapName)
	if err != nil {
		return err
	}

	var pref *session.Preferences
	if *prefsFile != "" {
		pref, err = session.NewPreferencesFromFile(*prefsFile)
	} else {
		pref, err = session.NewPreferences()
	}
	if err != nil {
		return err
	}

	env := environment.NewEnvironment(environment.MainLabel)

	reg := registry.NewRegistry()
	reg.SetLogPermission(env)

	emu := testcard.NewMachine(*width, *height)
	if err := reg.Add(emu); err != nil {
		return err
	}
	defer reg.Remove(emu)

	notify := notifications.NotifyFunc(func(notice notifications.Notice) error {
		logger.Log(env, env.Tag("run"), string(notice))
		return nil
	})

	// the window and everything that talks to SDL is created on the main
	// thread
	var win *session.Window
	sync.creator <- func() (GuiCreator, error) {
		view := kind.DefaultViewSize()
		hw, err := sdlhost.NewWindow(env, "Test Card", int(view.W), int(view.H))
		if err != nil {
			return nil, err
		}

		aud := sdlaudio.NewAudio()
		aud.SetLogPermission(env)

		win, err = session.NewWindow(env, reg, emu, session.Config{
			Kind:   kind,
			Host:   hw,
			Device: sdlhost.NewDevice(hw),
			Rate:   hw,
			KeyMap: km,
			Output: aud,
			Notify: notify,
		}, pref)
		if err != nil {
			hw.Destroy()
			return nil, err
		}
		win.Input.SetIndicator(hw)

		reg.SetChrome(hw)
		if *fullscreen {
			reg.DisableMenuBar()
		}

		return &host{
			win:  hw,
			svc:  sdlhost.NewService(hw, win.Presenter, win.Input),
			quit: make(chan struct{}),
		}, nil
	}

	var h *host
	select {
	case g := <-sync.creation:
		h = g.(*host)
	case err := <-sync.creationError:
		return err
	}
	defer win.Close()

	mounts, err := imageMounts(*images, md.RemainingArgs())
	if err != nil {
		return err
	}
	for _, m := range mounts {
		if err := win.Media.Mount(m.path, m.slot); err != nil {
			return err
		}
	}

	if *wav != "" {
		if err := win.OpenRecording(*wav); err != nil {
			return err
		}
		if err := win.Streams.Recording.Record(); err != nil {
			return err
		}
	}

	quit := make(chan struct{})
	done := make(chan struct{})
	go stepEmulation(emu, quit, done)
	defer func() {
		close(quit)
		<-done
	}()

	if err := win.Open(); err != nil {
		return err
	}

	sync.state <- stateRequest{req: reqForwardIntSig}

	select {
	case <-h.quit:
	case <-sync.interrupt:
	}

	if *dump != "" {
		if err := dumpState(win, *dump); err != nil {
			return err
		}
	}

	return nil
}

type imageMount struct {
	slot emulation.SlotID
	path string
}

// imageMounts combines the -image flags with the positional arguments.
// Positional arguments are given the first free slot of the form disk/N.
func imageMounts(images []string, args []string) ([]imageMount, error) {
	var mounts []imageMount
	used := make(map[emulation.SlotID]bool)

	for _, img := range images {
		s, pth, ok := strings.Cut(img, "=")
		if !ok || pth == "" {
			return nil, fmt.Errorf("image must be of the form slot=path: %s", img)
		}
		slot, err := emulation.ParseSlotID(s)
		if err != nil {
			return nil, err
		}
		if used[slot] {
			return nil, fmt.Errorf("slot specified more than once: %s", slot)
		}
		used[slot] = true
		mounts = append(mounts, imageMount{slot: slot, path: pth})
	}

	n := 0
	for _, pth := range args {
		slot := emulation.NewSlotID("disk", strconv.Itoa(n))
		for used[slot] {
			n++
			slot = emulation.NewSlotID("disk", strconv.Itoa(n))
		}
		used[slot] = true
		mounts = append(mounts, imageMount{slot: slot, path: pth})
	}

	return mounts, nil
}

// the test card runs at a fixed rate independent of the host display.
const testcardHz = 60

func stepEmulation(emu *testcard.Machine, quit chan struct{}, done chan struct{}) {
	defer close(done)

	tck := time.NewTicker(time.Second / testcardHz)
	defer tck.Stop()

	for {
		select {
		case <-quit:
			return
		case <-tck.C:
			emu.Step()
		}
	}
}

func dumpState(win *session.Window, pth string) error {
	f, err := os.Create(pth)
	if err != nil {
		return err
	}
	win.DumpState(f)
	return f.Close()
}
