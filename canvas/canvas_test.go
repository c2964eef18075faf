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

package canvas_test

import (
	"bytes"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/frameclock"
	"github.com/openemulator/syncore/test"
)

type host struct {
	crit    sync.Mutex
	view    canvas.Size
	density canvas.Size
}

func newHost(w, h float64) *host {
	return &host{
		view:    canvas.Size{W: w, H: h},
		density: canvas.Size{W: 1, H: 1},
	}
}

func (h *host) ViewSize() canvas.Size {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.view
}

func (h *host) PixelDensity() canvas.Size {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.density
}

func (h *host) setDensity(d float64) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.density = canvas.Size{W: d, H: d}
}

// failingDevice fails on the named operation.
type failingDevice struct {
	canvas.SoftDevice
	failInit    bool
	failPresent bool
	released    int
	presents    int
}

func (dev *failingDevice) Init() error {
	if dev.failInit {
		return errors.New("no context")
	}
	return dev.SoftDevice.Init()
}

func (dev *failingDevice) Present(dst image.Rectangle) error {
	dev.presents++
	if dev.failPresent {
		return errors.New("context lost")
	}
	return dev.SoftDevice.Present(dst)
}

func (dev *failingDevice) Release() {
	dev.released++
	dev.SoftDevice.Release()
}

func TestKind(t *testing.T) {
	test.ExpectEquality(t, canvas.KindDisplay.DefaultViewSize(), canvas.Size{W: 768, H: 576})
	test.ExpectEquality(t, canvas.KindPaper.DefaultViewSize(), canvas.Size{W: 612, H: 792})
	test.ExpectSuccess(t, canvas.KindPaper.IsPaper())
	test.ExpectFailure(t, canvas.KindPaper.IsDisplay())

	var dev canvas.SoftDevice
	pr := canvas.NewPresenter(canvas.KindPaper, newHost(612, 792), &dev, testcard.NewMachine(8, 8))
	test.ExpectEquality(t, pr.PageSize(), canvas.Size{W: 612, H: 792})
	pr = canvas.NewPresenter(canvas.KindDisplay, newHost(768, 576), &dev, testcard.NewMachine(8, 8))
	test.ExpectEquality(t, pr.PageSize(), canvas.Size{})
	test.ExpectEquality(t, pr.CanvasSize(), canvas.Size{W: 768, H: 576})
}

func TestGeometry(t *testing.T) {
	g := canvas.NewGeometry(canvas.Size{W: 768, H: 576}, canvas.Size{W: 2, H: 2})
	test.ExpectEquality(t, g.Pixels, image.Pt(1536, 1152))

	g = canvas.NewGeometry(canvas.Size{W: 100, H: 50}, canvas.Size{})
	test.ExpectEquality(t, g.Pixels, image.Pt(100, 50))

	test.ExpectEquality(t, canvas.Letterbox(image.Pt(4, 3), image.Pt(1000, 600)), image.Rect(100, 0, 900, 600))
	test.ExpectEquality(t, canvas.Letterbox(image.Pt(4, 3), image.Pt(400, 600)), image.Rect(0, 150, 400, 450))
	test.ExpectEquality(t, canvas.Letterbox(image.Pt(4, 3), image.Pt(400, 300)), image.Rect(0, 0, 400, 300))
	test.ExpectEquality(t, canvas.Letterbox(image.Point{}, image.Pt(400, 300)), image.Rect(0, 0, 400, 300))
}

func TestRepresentation(t *testing.T) {
	var dev canvas.SoftDevice
	m := testcard.NewMachine(64, 48)
	pr := canvas.NewPresenter(canvas.KindDisplay, newHost(64, 48), &dev, m)

	test.DemandSuccess(t, pr.Initialize())

	// no frame yet. the drawable is cleared
	pr.RenderTick()
	test.ExpectEquality(t, pr.Digest(), uint64(0))

	m.Step()
	pr.RenderTick()
	first := dev.Image()
	digest := pr.Digest()
	test.ExpectInequality(t, digest, uint64(0))

	// no new frame. the same frame is presented without being uploaded
	pr.RenderTick()
	second := dev.Image()
	test.ExpectSuccess(t, bytes.Equal(first.Pix, second.Pix))
	test.ExpectEquality(t, pr.Digest(), digest)

	uploads, presents := dev.Counts()
	test.ExpectEquality(t, uploads, 1)
	test.ExpectEquality(t, presents, 3)

	stats := pr.Stats()
	test.ExpectEquality(t, stats.Ticks, uint64(3))
	test.ExpectEquality(t, stats.Uploads, uint64(1))
	test.ExpectEquality(t, stats.Represented, uint64(1))

	m.Step()
	pr.RenderTick()
	test.ExpectInequality(t, pr.Digest(), digest)
	test.ExpectFailure(t, bytes.Equal(first.Pix, dev.Image().Pix))

	pr.Shutdown()
	pr.Shutdown()
	test.ExpectEquality(t, dev.Image(), (*image.RGBA)(nil))
}

func TestCapture(t *testing.T) {
	var dev canvas.SoftDevice
	m := testcard.NewMachine(70, 10)
	pr := canvas.NewPresenter(canvas.KindDisplay, newHost(70, 10), &dev, m)

	_, err := pr.CaptureImage(image.Rectangle{})
	test.ExpectSuccess(t, curated.Is(err, canvas.NothingPresented))

	test.DemandSuccess(t, pr.Initialize())
	m.Step()
	pr.RenderTick()

	img, err := pr.CaptureImage(image.Rectangle{})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds(), image.Rect(0, 0, 70, 10))

	img, err = pr.CaptureImage(image.Rect(0, 0, 2, 1))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds(), image.Rect(0, 0, 2, 1))
	test.ExpectEquality(t, img.RGBAAt(0, 0).R, uint8(0xff))
	test.ExpectEquality(t, img.RGBAAt(1, 0).R, uint8(0xc0))

	// the captured image is a copy
	img.Pix[0] = 0
	img, err = pr.CaptureImage(image.Rect(0, 0, 2, 1))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.RGBAAt(0, 0).R, uint8(0xff))

	_, err = pr.CaptureImage(image.Rect(100, 100, 110, 110))
	test.ExpectSuccess(t, curated.Is(err, canvas.CaptureOutsideFrame))
}

func TestGeometryChange(t *testing.T) {
	var dev canvas.SoftDevice
	h := newHost(64, 48)
	m := testcard.NewMachine(64, 48)
	pr := canvas.NewPresenter(canvas.KindDisplay, h, &dev, m)

	test.DemandSuccess(t, pr.Initialize())
	m.Step()
	pr.RenderTick()
	test.ExpectEquality(t, dev.Image().Bounds(), image.Rect(0, 0, 64, 48))

	// the change has no effect until the host says so
	h.setDensity(2)
	pr.RenderTick()
	test.ExpectEquality(t, dev.Image().Bounds(), image.Rect(0, 0, 64, 48))

	pr.OnBackingScaleChanged()
	test.ExpectEquality(t, pr.PixelDensity(), canvas.Size{W: 1, H: 1})
	pr.RenderTick()
	test.ExpectEquality(t, dev.Image().Bounds(), image.Rect(0, 0, 128, 96))
	test.ExpectEquality(t, pr.PixelDensity(), canvas.Size{W: 2, H: 2})
	test.ExpectEquality(t, pr.Geometry().Pixels, image.Pt(128, 96))

	pr.OnBecomeFocused()
	test.ExpectSuccess(t, pr.IsFocused())
	pr.OnResignFocused()
	test.ExpectFailure(t, pr.IsFocused())
}

func TestGPUFailure(t *testing.T) {
	dev := &failingDevice{}
	m := testcard.NewMachine(8, 8)
	pr := canvas.NewPresenter(canvas.KindDisplay, newHost(8, 8), dev, m)

	var reported []error
	pr.SetErrorHandler(func(err error) {
		reported = append(reported, err)
	})

	test.DemandSuccess(t, pr.Initialize())
	m.Step()
	pr.RenderTick()
	test.ExpectSuccess(t, pr.Disabled())

	dev.failPresent = true
	pr.RenderTick()
	test.ExpectSuccess(t, curated.Is(pr.Disabled(), canvas.GPUContextFailure))
	test.ExpectEquality(t, dev.released, 1)
	test.DemandEquality(t, len(reported), 1)
	test.ExpectSuccess(t, curated.Is(reported[0], canvas.GPUContextFailure))

	// further ticks do nothing
	pr.RenderTick()
	pr.RenderTick()
	test.ExpectEquality(t, dev.presents, 2)
	test.ExpectEquality(t, len(reported), 1)

	// the presenter stays disabled
	test.ExpectFailure(t, pr.Initialize())
	pr.Shutdown()
	test.ExpectEquality(t, dev.released, 1)

	// the last presented frame can still be captured
	_, err := pr.CaptureImage(image.Rectangle{})
	test.ExpectSuccess(t, err)
}

func TestInitFailure(t *testing.T) {
	dev := &failingDevice{failInit: true}
	pr := canvas.NewPresenter(canvas.KindDisplay, newHost(8, 8), dev, testcard.NewMachine(8, 8))

	err := pr.Initialize()
	test.ExpectSuccess(t, curated.Is(err, canvas.GPUContextFailure))

	// partially acquired resources are released
	test.ExpectEquality(t, dev.released, 1)

	pr.Shutdown()
	pr.RenderTick()
	test.ExpectEquality(t, dev.presents, 0)
}

func TestClockDriven(t *testing.T) {
	var dev canvas.SoftDevice
	m := testcard.NewMachine(16, 16)
	m.Step()

	pr := canvas.NewPresenter(canvas.KindDisplay, newHost(32, 32), &dev, m)
	clk := frameclock.NewFrameClock(frameclock.FixedRate(200), pr)

	test.DemandSuccess(t, clk.Start())
	test.ExpectSuccess(t, test.Eventually(t, time.Second, func() bool {
		return pr.Stats().Ticks >= 5
	}))
	clk.Stop()

	// the device was released when the clock stopped
	test.ExpectEquality(t, dev.Image(), (*image.RGBA)(nil))

	stats := pr.Stats()
	test.ExpectEquality(t, stats.Uploads, uint64(1))
	test.ExpectEquality(t, stats.Represented, stats.Ticks-1)

	// the clock can be started again with a new context
	test.DemandSuccess(t, clk.Start())
	test.ExpectSuccess(t, test.Eventually(t, time.Second, func() bool {
		return pr.Stats().Uploads == 2
	}))
	clk.Stop()
}
