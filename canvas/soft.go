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
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// SoftDevice implements the Device interface without a GPU. The drawable is
// an image in memory. Used for headless capture and in tests.
type SoftDevice struct {
	// the scaler used when presenting a frame. NearestNeighbor if nil
	Scaler draw.Scaler

	crit sync.Mutex

	initialised bool
	texture     *image.RGBA
	target      *image.RGBA

	uploads  int
	presents int
}

// Init implements the Device interface.
func (dev *SoftDevice) Init() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.initialised = true
	return nil
}

// Reshape implements the Device interface.
func (dev *SoftDevice) Reshape(w int, h int) error {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	if !dev.initialised {
		return errors.New("soft device: not initialised")
	}
	if w <= 0 || h <= 0 {
		return errors.New("soft device: drawable must have a positive size")
	}
	dev.target = image.NewRGBA(image.Rect(0, 0, w, h))

	return nil
}

// Upload implements the Device interface.
func (dev *SoftDevice) Upload(img *image.RGBA) error {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	if !dev.initialised {
		return errors.New("soft device: not initialised")
	}

	b := img.Bounds()
	if dev.texture == nil || dev.texture.Bounds().Size() != b.Size() {
		dev.texture = image.NewRGBA(image.Rectangle{Max: b.Size()})
	}
	draw.Draw(dev.texture, dev.texture.Bounds(), img, b.Min, draw.Src)
	dev.uploads++

	return nil
}

// Present implements the Device interface.
func (dev *SoftDevice) Present(dst image.Rectangle) error {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	if dev.target == nil {
		return errors.New("soft device: no drawable")
	}

	draw.Draw(dev.target, dev.target.Bounds(), image.Black, image.Point{}, draw.Src)

	if !dst.Empty() && dev.texture != nil {
		scaler := dev.Scaler
		if scaler == nil {
			scaler = draw.NearestNeighbor
		}
		scaler.Scale(dev.target, dst, dev.texture, dev.texture.Bounds(), draw.Src, nil)
	}
	dev.presents++

	return nil
}

// Release implements the Device interface.
func (dev *SoftDevice) Release() {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.initialised = false
	dev.texture = nil
	dev.target = nil
}

// Image returns a copy of the drawable. Returns nil if there is no drawable.
func (dev *SoftDevice) Image() *image.RGBA {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	if dev.target == nil {
		return nil
	}
	img := image.NewRGBA(dev.target.Bounds())
	copy(img.Pix, dev.target.Pix)
	return img
}

// Counts returns the number of calls to Upload() and Present().
func (dev *SoftDevice) Counts() (int, int) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.uploads, dev.presents
}
