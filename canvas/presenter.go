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

package canvas

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/frameclock"
	"github.com/openemulator/syncore/logger"
	"golang.org/x/image/draw"
)

// Sentinal error patterns.
const (
	GPUContextFailure   = "canvas: gpu context failure: %v"
	NothingPresented    = "canvas: nothing has been presented"
	CaptureOutsideFrame = "canvas: capture region is outside the frame"
)

// Host is implemented by the window that contains the canvas.
type Host interface {
	// size of the view in points
	ViewSize() Size

	// device pixels per point of the screen the view is currently on
	PixelDensity() Size
}

// Device is the GPU drawable. Functions are only ever called on the
// goroutine that called Init().
type Device interface {
	// acquire the GPU context and pixel format
	Init() error

	// change the size of the drawable
	Reshape(w int, h int) error

	// upload a new frame. the image must not be retained by the device
	Upload(img *image.RGBA) error

	// present the most recently uploaded frame in the destination
	// rectangle. an empty rectangle means the drawable should be cleared
	Present(dst image.Rectangle) error

	// release the GPU resources
	Release()
}

// FrameSource is the source of frames to be presented. The
// emulation.Emulation interface satisfies FrameSource.
type FrameSource interface {
	LatestFrame() emulation.Frame
}

// Stats about the presenter's activity.
type Stats struct {
	Ticks uint64

	// number of frames uploaded to the device
	Uploads uint64

	// number of ticks where the previous frame was presented again
	Represented uint64

	// periods dropped by the frame clock
	Skipped uint64
}

// Presenter presents frames from a FrameSource on a Device.
type Presenter struct {
	kind   Kind
	host   Host
	device Device
	source FrameSource
	perm   logger.Permission

	// set by the host goroutine. consumed by the timing goroutine
	dirty     atomic.Bool
	focused   atomic.Bool
	letterbox atomic.Bool

	// the following fields are only accessed by the timing goroutine
	initialised bool
	geometry    Geometry
	hasFrame    bool
	lastSeq     uint64
	frameSize   image.Point

	// disabled is set by the timing goroutine and read by other goroutines
	disabled atomic.Pointer[error]

	crit presenterCrit
}

// fields accessed by more than one goroutine.
type presenterCrit struct {
	section sync.Mutex

	geometry Geometry

	// copy of the most recently uploaded frame
	presented *image.RGBA
	digest    uint64

	stats Stats

	onError func(error)
}

// NewPresenter is the preferred method of initialisation for the Presenter
// type.
func NewPresenter(kind Kind, host Host, device Device, source FrameSource) *Presenter {
	pr := &Presenter{
		kind:   kind,
		host:   host,
		device: device,
		source: source,
		perm:   logger.Allow,
	}
	pr.letterbox.Store(true)
	pr.dirty.Store(true)
	pr.crit.geometry = NewGeometry(kind.DefaultViewSize(), Size{W: 1, H: 1})
	return pr
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (pr *Presenter) SetLogPermission(perm logger.Permission) {
	pr.perm = perm
}

// SetErrorHandler sets the function that is called when the presenter
// disables itself. The function is called at most once and on the timing
// goroutine.
func (pr *Presenter) SetErrorHandler(f func(error)) {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	pr.crit.onError = f
}

// SetLetterbox sets whether the aspect ratio of the frame is preserved. If
// not the frame is stretched to fill the drawable.
func (pr *Presenter) SetLetterbox(letterbox bool) {
	pr.letterbox.Store(letterbox)
	pr.dirty.Store(true)
}

// Kind returns the kind of canvas being presented.
func (pr *Presenter) Kind() Kind {
	return pr.kind
}

// Initialize acquires the GPU context. Must be called on the goroutine that
// will call RenderTick() and Shutdown().
func (pr *Presenter) Initialize() error {
	if err := pr.Disabled(); err != nil {
		return err
	}
	if pr.initialised {
		return nil
	}

	if err := pr.device.Init(); err != nil {
		// the device may have partially initialised
		pr.device.Release()
		return pr.disable(err)
	}
	pr.initialised = true

	// a new context has no drawable and no texture
	pr.geometry = Geometry{}
	pr.hasFrame = false
	pr.dirty.Store(true)

	logger.Logf(pr.perm, "canvas", "%s initialised", pr.kind)

	return nil
}

// Shutdown releases the GPU context. It is safe to call Shutdown() more than
// once and on a presenter that failed to initialise.
func (pr *Presenter) Shutdown() {
	if !pr.initialised {
		return
	}
	pr.initialised = false
	pr.device.Release()
	logger.Logf(pr.perm, "canvas", "%s shutdown", pr.kind)
}

// disable the presenter and report the error through the error handler. the
// GPUContextFailure error is returned.
func (pr *Presenter) disable(err error) error {
	err = curated.Errorf(GPUContextFailure, err)
	if !pr.disabled.CompareAndSwap(nil, &err) {
		return *pr.disabled.Load()
	}

	if pr.initialised {
		pr.initialised = false
		pr.device.Release()
	}

	logger.Log(pr.perm, "canvas", err.Error())

	pr.crit.section.Lock()
	f := pr.crit.onError
	pr.crit.section.Unlock()

	if f != nil {
		f(err)
	}

	return err
}

// Disabled returns the error that caused the presenter to disable itself.
// Returns nil if the presenter has not been disabled.
func (pr *Presenter) Disabled() error {
	if err := pr.disabled.Load(); err != nil {
		return *err
	}
	return nil
}

// OnResize should be called by the host when the view changes size.
func (pr *Presenter) OnResize() {
	pr.dirty.Store(true)
}

// OnScreenChanged should be called by the host when the view moves to a
// different screen.
func (pr *Presenter) OnScreenChanged() {
	pr.dirty.Store(true)
}

// OnBackingScaleChanged should be called by the host when the pixel density
// of the screen changes.
func (pr *Presenter) OnBackingScaleChanged() {
	pr.dirty.Store(true)
}

// OnBecomeFocused should be called by the host when the view gains the
// keyboard focus.
func (pr *Presenter) OnBecomeFocused() {
	pr.focused.Store(true)
	pr.dirty.Store(true)
}

// OnResignFocused should be called by the host when the view loses the
// keyboard focus.
func (pr *Presenter) OnResignFocused() {
	pr.focused.Store(false)
}

// IsFocused returns true if the view has the keyboard focus.
func (pr *Presenter) IsFocused() bool {
	return pr.focused.Load()
}

// RenderTick presents the latest frame. Must be called on the same goroutine
// as Initialize().
func (pr *Presenter) RenderTick() {
	pr.render(0)
}

func (pr *Presenter) render(skipped int) {
	if !pr.initialised || pr.Disabled() != nil {
		return
	}

	if pr.dirty.Swap(false) {
		g := NewGeometry(pr.host.ViewSize(), pr.host.PixelDensity())
		if g.Pixels != pr.geometry.Pixels {
			if err := pr.device.Reshape(g.Pixels.X, g.Pixels.Y); err != nil {
				pr.disable(err)
				return
			}
		}
		pr.geometry = g

		pr.crit.section.Lock()
		pr.crit.geometry = g
		pr.crit.section.Unlock()
	}

	frame := pr.source.LatestFrame()

	var upload bool
	if frame.Image != nil && (!pr.hasFrame || frame.Seq != pr.lastSeq) {
		if err := pr.device.Upload(frame.Image); err != nil {
			pr.disable(err)
			return
		}
		pr.hasFrame = true
		pr.lastSeq = frame.Seq
		pr.frameSize = frame.Image.Bounds().Size()
		upload = true
	}

	var dst image.Rectangle
	if pr.hasFrame {
		if pr.letterbox.Load() {
			dst = Letterbox(pr.frameSize, pr.geometry.Pixels)
		} else {
			dst = image.Rectangle{Max: pr.geometry.Pixels}
		}
	}

	if err := pr.device.Present(dst); err != nil {
		pr.disable(err)
		return
	}

	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()

	pr.crit.stats.Ticks++
	pr.crit.stats.Skipped += uint64(skipped)
	if upload {
		pr.crit.stats.Uploads++
		pr.keepFrame(frame.Image)
	} else if pr.hasFrame {
		pr.crit.stats.Represented++
	}
}

// keep a private copy of the frame for CaptureImage(). must be called with
// the critical section locked.
func (pr *Presenter) keepFrame(img *image.RGBA) {
	b := img.Bounds()
	if pr.crit.presented == nil || pr.crit.presented.Bounds().Size() != b.Size() {
		pr.crit.presented = image.NewRGBA(image.Rectangle{Max: b.Size()})
	}
	draw.Draw(pr.crit.presented, pr.crit.presented.Bounds(), img, b.Min, draw.Src)
	pr.crit.digest = xxhash.Sum64(pr.crit.presented.Pix)
}

// CaptureImage returns a copy of a region of the most recently presented
// frame. The region is in frame coordinates. An empty rectangle captures the
// whole frame. Safe to call from any goroutine.
func (pr *Presenter) CaptureImage(r image.Rectangle) (*image.RGBA, error) {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()

	if pr.crit.presented == nil {
		return nil, curated.Errorf(NothingPresented)
	}

	b := pr.crit.presented.Bounds()
	if r.Empty() {
		r = b
	} else {
		r = r.Intersect(b)
		if r.Empty() {
			return nil, curated.Errorf(CaptureOutsideFrame)
		}
	}

	img := image.NewRGBA(image.Rectangle{Max: r.Size()})
	draw.Draw(img, img.Bounds(), pr.crit.presented, r.Min, draw.Src)

	return img, nil
}

// Digest returns a hash of the most recently uploaded frame. Zero if no frame
// has been uploaded.
func (pr *Presenter) Digest() uint64 {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	return pr.crit.digest
}

// Stats returns a copy of the presenter's statistics.
func (pr *Presenter) Stats() Stats {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	return pr.crit.stats
}

// CanvasSize returns the size of the view in points, as of the most recent
// tick.
func (pr *Presenter) CanvasSize() Size {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	return pr.crit.geometry.View
}

// PixelDensity returns the pixel density in use, as of the most recent tick.
func (pr *Presenter) PixelDensity() Size {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	return pr.crit.geometry.Density
}

// Geometry returns the geometry of the drawable, as of the most recent tick.
func (pr *Presenter) Geometry() Geometry {
	pr.crit.section.Lock()
	defer pr.crit.section.Unlock()
	return pr.crit.geometry
}

// PageSize returns the size of a single page in points. Only paper canvases
// have pages. The page size of a display canvas is zero.
func (pr *Presenter) PageSize() Size {
	if pr.kind.IsPaper() {
		return pr.kind.DefaultViewSize()
	}
	return Size{}
}

// ClockStarted implements the frameclock.Listener interface.
func (pr *Presenter) ClockStarted() error {
	return pr.Initialize()
}

// Tick implements the frameclock.Listener interface.
func (pr *Presenter) Tick(tck frameclock.Tick) {
	pr.render(tck.Skipped)
}

// ClockStopped implements the frameclock.Listener interface.
func (pr *Presenter) ClockStopped() {
	pr.Shutdown()
}
