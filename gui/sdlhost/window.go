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
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/version"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL window with an OpenGL drawable.
type Window struct {
	perm  logger.Permission
	title string

	window *sdl.Window

	// cached by Refresh() on the main thread for use by the timing goroutine
	crit    sync.Mutex
	view    canvas.Size
	density canvas.Size
	display int

	// LED state to show in the title. see ShowLEDs()
	leds atomic.Uint32
}

// NewWindow initialises SDL and opens a window of the given size in points.
// Must be called from the main thread.
func NewWindow(perm logger.Permission, title string, width int, height int) (*Window, error) {
	// the SDL package calls LockOSThread() but we call it here too. it can't
	// hurt and we never unlock it in any case
	runtime.LockOSThread()

	err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: %w", err)
	}

	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: %w", err)
	}
	err = sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: %w", err)
	}

	var sdlVersion sdl.Version
	sdl.VERSION(&sdlVersion)
	logger.Logf(perm, "sdlhost", "version %d.%d.%d", sdlVersion.Major, sdlVersion.Minor, sdlVersion.Patch)

	win := &Window{
		perm:  perm,
		title: fmt.Sprintf("%s - %s", title, version.ApplicationName),
	}

	win.window, err = sdl.CreateWindow(win.title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_ALLOW_HIGHDPI|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: %w", err)
	}

	win.Refresh()

	return win, nil
}

// Destroy the window and shut down SDL. Must be called from the main thread
// after the frame clock has been stopped.
func (win *Window) Destroy() {
	if win.window != nil {
		if err := win.window.Destroy(); err != nil {
			logger.Logf(win.perm, "sdlhost", "%v", err)
		}
		win.window = nil
	}
	sdl.Quit()
}

// Refresh the cached size and display of the window. Returns true if the
// window has moved to another display. Must be called from the main thread.
func (win *Window) Refresh() bool {
	w, h := win.window.GetSize()
	dw, dh := win.window.GLGetDrawableSize()
	display, err := win.window.GetDisplayIndex()
	if err != nil {
		logger.Logf(win.perm, "sdlhost", "%v", err)
	}

	win.crit.Lock()
	defer win.crit.Unlock()

	win.view = canvas.Size{W: float64(w), H: float64(h)}
	win.density = canvas.Size{W: 1, H: 1}
	if w > 0 && h > 0 {
		win.density = canvas.Size{W: float64(dw) / float64(w), H: float64(dh) / float64(h)}
	}

	moved := display != win.display
	win.display = display

	return moved
}

// ViewSize implements the canvas.Host interface.
func (win *Window) ViewSize() canvas.Size {
	win.crit.Lock()
	defer win.crit.Unlock()
	return win.view
}

// PixelDensity implements the canvas.Host interface.
func (win *Window) PixelDensity() canvas.Size {
	win.crit.Lock()
	defer win.crit.Unlock()
	return win.density
}

// RefreshRate implements the frameclock.RefreshRate interface. The rate is
// that of the display the window is currently on.
func (win *Window) RefreshRate() (float64, error) {
	win.crit.Lock()
	display := win.display
	win.crit.Unlock()

	mode, err := sdl.GetCurrentDisplayMode(display)
	if err != nil {
		return 0, fmt.Errorf("sdlhost: %w", err)
	}
	if mode.RefreshRate == 0 {
		return 0, fmt.Errorf("sdlhost: display %d does not report a refresh rate", display)
	}

	logger.Logf(win.perm, "sdlhost", "refresh rate: %dHz", mode.RefreshRate)

	return float64(mode.RefreshRate), nil
}

// SetMenuBarVisible implements the registry.Chrome interface. SDL windows
// have no menu bar so suppression is shown by going full screen.
func (win *Window) SetMenuBarVisible(visible bool) {
	var err error
	if visible {
		err = win.window.SetFullscreen(0)
	} else {
		err = win.window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
	}
	if err != nil {
		logger.Logf(win.perm, "sdlhost", "%v", err)
	}
}

// ShowLEDs implements the userinput.Indicator interface. The LEDs are shown
// in the window title the next time the event service runs.
func (win *Window) ShowLEDs(leds emulation.LED) {
	win.leds.Store(uint32(leds) | ledsChanged)
}

// flag in the leds field indicating that the title needs updating.
const ledsChanged = 0x80000000

// update window title if the LEDs have changed. must be called from the main
// thread.
func (win *Window) updateTitle() {
	v := win.leds.Load()
	if v&ledsChanged == 0 || !win.leds.CompareAndSwap(v, v&^ledsChanged) {
		return
	}

	leds := emulation.LED(v &^ ledsChanged)
	if leds == 0 {
		win.window.SetTitle(win.title)
		return
	}
	win.window.SetTitle(fmt.Sprintf("%s [%s]", win.title, leds))
}
