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

package sdlhost

import (
	"time"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/userinput"
	"github.com/veandco/go-sdl2/sdl"
	"golang.design/x/clipboard"
)

// Service translates SDL events into calls on a presenter and an input
// router.
type Service struct {
	win *Window
	pr  *canvas.Presenter
	in  *userinput.Router

	// clipboard is not available on all platforms
	clipboard bool
}

// NewService is the preferred method of initialisation for the Service type.
func NewService(win *Window, pr *canvas.Presenter, in *userinput.Router) *Service {
	svc := &Service{
		win: win,
		pr:  pr,
		in:  in,
	}

	if err := clipboard.Init(); err != nil {
		logger.Logf(win.perm, "sdlhost", "clipboard unavailable: %v", err)
	} else {
		svc.clipboard = true
	}

	return svc
}

// Service handles all pending events, waiting up to timeout for the first
// one. Returns false if the user has asked to quit. Must be called from the
// main thread.
func (svc *Service) Service(timeout time.Duration) bool {
	defer svc.win.updateTitle()

	for ev := sdl.WaitEventTimeout(int(timeout.Milliseconds())); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.WindowEvent:
			svc.serviceWindowEvent(ev)

		case *sdl.KeyboardEvent:
			svc.serviceKeyboard(ev)

		case *sdl.MouseButtonEvent:
			// SDL numbers buttons from one
			err := svc.in.MouseButton(int(ev.Button)-1, ev.Type == sdl.MOUSEBUTTONDOWN)
			if err != nil {
				logger.Logf(svc.win.perm, "sdlhost", "%v", err)
			}

		case *sdl.MouseMotionEvent:
			if err := svc.in.MouseMotion(int(ev.XRel), int(ev.YRel)); err != nil {
				logger.Logf(svc.win.perm, "sdlhost", "%v", err)
			}

		case *sdl.MouseWheelEvent:
			if err := svc.in.MouseWheel(int(ev.X), int(ev.Y)); err != nil {
				logger.Logf(svc.win.perm, "sdlhost", "%v", err)
			}
		}
	}

	return true
}

func (svc *Service) serviceWindowEvent(ev *sdl.WindowEvent) {
	switch ev.Event {
	case sdl.WINDOWEVENT_SIZE_CHANGED:
		if svc.win.Refresh() {
			svc.pr.OnScreenChanged()
		} else {
			svc.pr.OnResize()
		}

	case sdl.WINDOWEVENT_MOVED:
		// moving to a display with a different pixel density changes the size
		// of the drawable but not the size of the window
		if svc.win.Refresh() {
			svc.pr.OnScreenChanged()
			svc.pr.OnBackingScaleChanged()
		}

	case sdl.WINDOWEVENT_FOCUS_GAINED:
		svc.pr.OnBecomeFocused()

	case sdl.WINDOWEVENT_FOCUS_LOST:
		svc.pr.OnResignFocused()

		// key up events will not be seen while the window is not focused
		if err := svc.in.ReleaseAll(); err != nil {
			logger.Logf(svc.win.perm, "sdlhost", "%v", err)
		}
	}
}

func (svc *Service) serviceKeyboard(ev *sdl.KeyboardEvent) {
	if ev.Repeat == 1 {
		return
	}

	// the paste command is handled by the host and is not seen by the
	// emulation
	if ev.Keysym.Scancode == sdl.SCANCODE_V && ev.Keysym.Mod&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0 {
		if ev.Type == sdl.KEYDOWN {
			svc.paste()
		}
		return
	}

	var err error

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_LCTRL, sdl.SCANCODE_RCTRL,
		sdl.SCANCODE_LSHIFT, sdl.SCANCODE_RSHIFT,
		sdl.SCANCODE_LALT, sdl.SCANCODE_RALT,
		sdl.SCANCODE_LGUI, sdl.SCANCODE_RGUI,
		sdl.SCANCODE_CAPSLOCK:
		err = svc.in.UpdateModifiers(modifiers(uint16(sdl.GetModState())))

	default:
		// SDL scancodes are USB HID usage codes
		if ev.Keysym.Scancode > 0xff {
			return
		}
		code := uint8(ev.Keysym.Scancode)
		if ev.Type == sdl.KEYDOWN {
			err = svc.in.KeyDown(code)
		} else {
			err = svc.in.KeyUp(code)
		}
	}

	if err != nil {
		logger.Logf(svc.win.perm, "sdlhost", "%v", err)
	}
}

func modifiers(mod uint16) userinput.Modifier {
	var m userinput.Modifier
	if mod&sdl.KMOD_SHIFT != 0 {
		m |= userinput.ModShift
	}
	if mod&sdl.KMOD_CTRL != 0 {
		m |= userinput.ModControl
	}
	if mod&sdl.KMOD_ALT != 0 {
		m |= userinput.ModAlt
	}
	if mod&sdl.KMOD_GUI != 0 {
		m |= userinput.ModGUI
	}
	if mod&sdl.KMOD_CAPS != 0 {
		m |= userinput.ModCapsLock
	}
	return m
}

func (svc *Service) paste() {
	if !svc.clipboard {
		return
	}
	text := clipboard.Read(clipboard.FmtText)
	if len(text) == 0 {
		return
	}
	svc.in.Paste(string(text))
}
