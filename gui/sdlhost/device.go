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
	"image"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/openemulator/syncore/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// Device implements the canvas.Device interface with OpenGL. The uploaded
// frame is held in a texture attached to a read framebuffer and is blitted to
// the window's framebuffer when presented.
type Device struct {
	win *Window

	ctx sdl.GLContext

	texture uint32
	fbo     uint32

	// size of the texture
	width  int32
	height int32

	// size of the drawable
	drawW int32
	drawH int32
}

// NewDevice is the preferred method of initialisation for the Device type.
func NewDevice(win *Window) *Device {
	return &Device{
		win: win,
	}
}

// Init implements the canvas.Device interface.
func (dev *Device) Init() error {
	var err error

	dev.ctx, err = dev.win.window.GLCreateContext()
	if err != nil {
		return fmt.Errorf("sdlhost: %w", err)
	}

	err = dev.win.window.GLMakeCurrent(dev.ctx)
	if err != nil {
		sdl.GLDeleteContext(dev.ctx)
		dev.ctx = nil
		return fmt.Errorf("sdlhost: %w", err)
	}

	// swapping is paced by the frame clock
	if err := sdl.GLSetSwapInterval(0); err != nil {
		logger.Logf(dev.win.perm, "sdlhost", "GLSetSwapInterval(0): %v", err)
	}

	err = gl.Init()
	if err != nil {
		sdl.GLDeleteContext(dev.ctx)
		dev.ctx = nil
		return fmt.Errorf("sdlhost: %w", err)
	}
	logger.Logf(dev.win.perm, "sdlhost", "GL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.GenTextures(1, &dev.texture)
	gl.BindTexture(gl.TEXTURE_2D, dev.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)

	gl.GenFramebuffers(1, &dev.fbo)

	dev.width = 0
	dev.height = 0

	return nil
}

// Reshape implements the canvas.Device interface.
func (dev *Device) Reshape(w int, h int) error {
	dev.drawW = int32(w)
	dev.drawH = int32(h)
	gl.Viewport(0, 0, dev.drawW, dev.drawH)
	return nil
}

// Upload implements the canvas.Device interface.
func (dev *Device) Upload(img *image.RGBA) error {
	sz := img.Bounds().Size()
	if img.Stride != sz.X*4 {
		return fmt.Errorf("sdlhost: image stride of %d is not supported", img.Stride)
	}

	gl.BindTexture(gl.TEXTURE_2D, dev.texture)

	if dev.width != int32(sz.X) || dev.height != int32(sz.Y) {
		dev.width = int32(sz.X)
		dev.height = int32(sz.Y)
		gl.TexImage2D(gl.TEXTURE_2D, 0,
			gl.RGBA, dev.width, dev.height, 0,
			gl.RGBA, gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix))

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, dev.fbo)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, dev.texture, 0)
		if status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			return fmt.Errorf("sdlhost: framebuffer incomplete (%#x)", status)
		}
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0,
			0, 0, dev.width, dev.height,
			gl.RGBA, gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix))
	}

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("sdlhost: texture upload (%#x)", e)
	}

	return nil
}

// Present implements the canvas.Device interface.
func (dev *Device) Present(dst image.Rectangle) error {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if !dst.Empty() && dev.width > 0 {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, dev.fbo)

		// the first row of the image is the first row of the texture. GL
		// places that row at the bottom so the destination is flipped
		// vertically
		gl.BlitFramebuffer(
			0, 0, dev.width, dev.height,
			int32(dst.Min.X), dev.drawH-int32(dst.Min.Y), int32(dst.Max.X), dev.drawH-int32(dst.Max.Y),
			gl.COLOR_BUFFER_BIT, gl.NEAREST)

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	}

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("sdlhost: present (%#x)", e)
	}

	dev.win.window.GLSwap()

	return nil
}

// Release implements the canvas.Device interface.
func (dev *Device) Release() {
	if dev.ctx == nil {
		return
	}

	gl.DeleteFramebuffers(1, &dev.fbo)
	gl.DeleteTextures(1, &dev.texture)
	dev.fbo = 0
	dev.texture = 0

	sdl.GLDeleteContext(dev.ctx)
	dev.ctx = nil
}
