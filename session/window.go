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

package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/environment"
	"github.com/openemulator/syncore/frameclock"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/media"
	"github.com/openemulator/syncore/notifications"
	"github.com/openemulator/syncore/registry"
	"github.com/openemulator/syncore/stream"
	"github.com/openemulator/syncore/userinput"
)

// Sentinal error patterns.
const (
	Detached = "session: window is detached from its emulation"
	Closed   = "session: window is closed"
)

// Config collates the host specific collaborators of a window.
type Config struct {
	Kind   canvas.Kind
	Host   canvas.Host
	Device canvas.Device
	Rate   frameclock.RefreshRate
	KeyMap *userinput.KeyMap

	// audio output for stream playback
	Output stream.Output

	// optional receiver of notices from the window. for example
	// NotifyCanvasDisabled and NotifyPlaybackEnded
	Notify notifications.Notify
}

// Window joins the synchronisation components for one emulation.
type Window struct {
	env    *environment.Environment
	reg    *registry.Registry
	ref    registry.Ref
	notify notifications.Notify

	Presenter *canvas.Presenter
	Clock     *frameclock.FrameClock
	Input     *userinput.Router
	Media     *media.Binder
	Streams   *stream.Controller

	// audio for the recorder. only accessed by the timing goroutine
	audio     []float32
	audioTime time.Time

	// format of recordings
	recordRate     int
	recordChannels int

	detached atomic.Bool

	crit   sync.Mutex
	closed bool
}

// NewWindow binds a new window to a registered emulation. The window's clock
// is not started until Open() is called.
func NewWindow(env *environment.Environment, reg *registry.Registry, emu emulation.Emulation, cnf Config, p *Preferences) (*Window, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	win := &Window{
		env:    env,
		reg:    reg,
		notify: cnf.Notify,
	}

	var err error
	win.ref, err = reg.Bind(emu, win)
	if err != nil {
		return nil, err
	}

	types := p.FileTypes()

	win.Presenter = canvas.NewPresenter(cnf.Kind, cnf.Host, cnf.Device, win)
	win.Presenter.SetLogPermission(env)
	win.Presenter.SetLetterbox(p.Letterbox.Get().(bool))
	win.Presenter.SetErrorHandler(win.canvasFailure)

	win.Clock = frameclock.NewFrameClock(cnf.Rate, win)
	win.Clock.SetLogPermission(env)
	win.Clock.SetMaxSkip(p.MaxSkip.Get().(int))
	if err := win.Clock.SetRefreshOverride(p.RefreshOverride.Get().(float64)); err != nil {
		reg.Unbind(win.ref)
		return nil, err
	}

	win.Input = userinput.NewRouter(cnf.KeyMap, win.ref)
	win.Input.SetLogPermission(env)
	win.Input.SetPasteInterval(time.Duration(p.PasteInterval.Get().(int)) * time.Millisecond)
	win.Input.SetLEDResyncTimeout(time.Duration(p.LEDResyncTimeout.Get().(int)) * time.Millisecond)

	win.Media = media.NewBinder(win.ref, types)
	win.Media.SetLogPermission(env)

	win.Streams = stream.NewController(cnf.Output, win, types)
	win.Streams.SetLogPermission(env)
	win.recordRate = p.RecordRate.Get().(int)
	win.recordChannels = p.RecordChannels.Get().(int)

	return win, nil
}

// Open starts the window's clock.
func (win *Window) Open() error {
	win.crit.Lock()
	defer win.crit.Unlock()

	if win.closed {
		return curated.Errorf(Closed)
	}
	if win.detached.Load() {
		return curated.Errorf(Detached)
	}

	return win.Clock.Start()
}

// Close the window. The clock is stopped, streams are closed and media is
// unmounted. The window is unbound from the emulation but the emulation
// remains in the registry. Always succeeds.
func (win *Window) Close() {
	win.crit.Lock()
	defer win.crit.Unlock()

	if win.closed {
		return
	}
	win.closed = true

	win.stop()

	if !win.detached.Load() {
		if err := win.Input.ReleaseAll(); err != nil {
			logger.Logf(win.env, win.env.Tag("session"), "releasing input: %v", err)
		}
	}
	if err := win.Media.UnmountAll(); err != nil {
		logger.Logf(win.env, win.env.Tag("session"), "unmounting media: %v", err)
	}

	win.reg.Unbind(win.ref)
}

// stop all activity that uses the emulation. must be called with the
// critical section locked.
func (win *Window) stop() {
	win.Clock.Stop()
	win.Presenter.Shutdown()
	win.Input.CancelPaste()
	win.Streams.Close()
}

// OpenRecording opens a file for recording the emulation's audio. The sample
// rate of the recording is the rate of the emulation's audio, if it produces
// any. Recording starts with a call to Streams.Recording.Record().
func (win *Window) OpenRecording(path string) error {
	emu, ok := win.ref.Emulation()
	if !ok {
		return curated.Errorf(Detached)
	}

	rate := win.recordRate
	if src, ok := emu.(emulation.AudioSource); ok {
		rate = src.SampleRate()
	}

	channels := win.recordChannels
	if err := win.Streams.Recording.SetFormat(rate, channels); err != nil {
		return err
	}

	return win.Streams.Recording.Open(path)
}

// IsDetached returns true if the emulation has been removed from the
// registry.
func (win *Window) IsDetached() bool {
	return win.detached.Load()
}

// Emulation returns the window's emulation, or false if the window has been
// detached.
func (win *Window) Emulation() (emulation.Emulation, bool) {
	return win.ref.Emulation()
}

// Notify implements the notifications.Notify interface.
//
// NotifyEmulationRemoved must not be sent from the window's own timing
// goroutine.
func (win *Window) Notify(notice notifications.Notice) error {
	switch notice {
	case notifications.NotifyEmulationRemoved:
		win.crit.Lock()
		if !win.detached.Swap(true) && !win.closed {
			logger.Log(win.env, win.env.Tag("session"), "emulation removed. window detached")
			win.stop()
		}
		win.crit.Unlock()
	}

	if win.notify != nil {
		return win.notify.Notify(notice)
	}
	return nil
}

func (win *Window) canvasFailure(err error) {
	logger.Logf(win.env, win.env.Tag("session"), "%v", err)
	if win.notify != nil {
		if err := win.notify.Notify(notifications.NotifyCanvasDisabled); err != nil {
			logger.Logf(win.env, win.env.Tag("session"), "%v", err)
		}
	}
}

// LatestFrame implements the canvas.FrameSource interface. An empty frame is
// returned once the window is detached.
func (win *Window) LatestFrame() emulation.Frame {
	emu, ok := win.ref.Emulation()
	if !ok {
		return emulation.Frame{}
	}
	return emu.LatestFrame()
}

// ClockStarted implements the frameclock.Listener interface.
func (win *Window) ClockStarted() error {
	win.audioTime = time.Time{}
	return win.Presenter.ClockStarted()
}

// Tick implements the frameclock.Listener interface.
func (win *Window) Tick(tck frameclock.Tick) {
	win.Presenter.Tick(tck)
	win.Input.SynchronizeLEDs()
	win.record(tck.Time)
}

// ClockStopped implements the frameclock.Listener interface.
func (win *Window) ClockStopped() {
	win.Presenter.ClockStopped()
}

// maximum amount of audio collected in one tick.
const maxAudioPerTick = 250 * time.Millisecond

// pass emulation audio to the recorder. the amount of audio read is the time
// since the previous tick.
func (win *Window) record(now time.Time) {
	prev := win.audioTime
	win.audioTime = now

	if !win.Streams.Recording.IsActive() || prev.IsZero() {
		return
	}

	emu, ok := win.ref.Emulation()
	if !ok {
		return
	}
	src, ok := emu.(emulation.AudioSource)
	if !ok {
		return
	}

	elapsed := now.Sub(prev)
	if elapsed > maxAudioPerTick {
		elapsed = maxAudioPerTick
	}

	// audio sources are stereo
	n := int(elapsed*time.Duration(src.SampleRate())/time.Second) * 2
	if n <= 0 {
		return
	}
	if cap(win.audio) < n {
		win.audio = make([]float32, n)
	}

	n = src.ReadAudio(win.audio[:n])

	// mix to mono if necessary
	if win.recordChannels == 1 {
		for i := 0; i+1 < n; i += 2 {
			win.audio[i/2] = (win.audio[i] + win.audio[i+1]) / 2
		}
		n /= 2
	}

	win.Streams.Recording.Write(win.audio[:n])
}
