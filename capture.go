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
	"image"
	"image/png"
	"os"

	"github.com/openemulator/syncore/canvas"
	"github.com/openemulator/syncore/emulation/testcard"
	"github.com/openemulator/syncore/modalflag"
	"github.com/openemulator/syncore/paths"
	"golang.org/x/image/draw"
)

// fixedHost is a canvas.Host with a view that never changes.
type fixedHost struct {
	view    canvas.Size
	density canvas.Size
}

func (h fixedHost) ViewSize() canvas.Size {
	return h.view
}

func (h fixedHost) PixelDensity() canvas.Size {
	return h.density
}

type captureOptions struct {
	kind    canvas.Kind
	width   int
	height  int
	frames  int
	density float64

	// capture the whole drawable rather than just the frame
	drawable bool

	// smooth scaling of the frame into the drawable
	smooth bool
}

// captureTestCard renders a test card through a software canvas. Returns the
// captured image and the digest of the frame.
func captureTestCard(opts captureOptions) (*image.RGBA, uint64, error) {
	if opts.frames < 1 {
		return nil, 0, fmt.Errorf("at least one frame must be stepped")
	}
	if opts.density <= 0 {
		return nil, 0, fmt.Errorf("pixel density must be positive")
	}

	emu := testcard.NewMachine(opts.width, opts.height)
	for i := 0; i < opts.frames; i++ {
		emu.Step()
	}

	var dev canvas.SoftDevice
	if opts.smooth {
		dev.Scaler = draw.CatmullRom
	}

	hst := fixedHost{
		view:    opts.kind.DefaultViewSize(),
		density: canvas.Size{W: opts.density, H: opts.density},
	}

	pr := canvas.NewPresenter(opts.kind, hst, &dev, emu)
	if err := pr.Initialize(); err != nil {
		return nil, 0, err
	}
	defer pr.Shutdown()

	pr.RenderTick()
	if err := pr.Disabled(); err != nil {
		return nil, 0, err
	}

	if opts.drawable {
		img := dev.Image()
		if img == nil {
			return nil, 0, fmt.Errorf("nothing has been drawn")
		}
		return img, pr.Digest(), nil
	}

	img, err := pr.CaptureImage(image.Rectangle{})
	if err != nil {
		return nil, 0, err
	}
	return img, pr.Digest(), nil
}

func capture(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("The image is written to the named PNG file or to a uniquely named file in the current directory.")

	kindName := md.AddString("canvas", canvas.KindDisplay.String(), "canvas kind: display, paper")
	width := md.AddInt("width", 560, "width of the emulated frame")
	height := md.AddInt("height", 384, "height of the emulated frame")
	frames := md.AddInt("frames", 1, "number of frames to step before capturing")
	density := md.AddFloat64("density", 1.0, "pixel density of the simulated display")
	drawable := md.AddBool("drawable", false, "capture the letterboxed drawable rather than the frame")
	smooth := md.AddBool("smooth", false, "use smooth scaling when drawing the frame")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	kind, err := canvasKind(*kindName)
	if err != nil {
		return err
	}

	var pth string
	switch len(md.RemainingArgs()) {
	case 0:
		pth = paths.UniqueFilename("capture", "testcard") + ".png"
	case 1:
		pth = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	img, digest, err := captureTestCard(captureOptions{
		kind:     kind,
		width:    *width,
		height:   *height,
		frames:   *frames,
		density:  *density,
		drawable: *drawable,
		smooth:   *smooth,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(pth)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	st := newStyles()
	b := img.Bounds()
	fmt.Printf("%s %dx%d %016x\n", st.result.Render(pth), b.Dx(), b.Dy(), digest)

	return nil
}
