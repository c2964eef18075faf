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
	"fmt"
	"image"
	"math"
)

// Kind distinguishes between the continuous output of a display and the
// paginated output of a printer.
type Kind int

// List of canvas kinds.
const (
	KindDisplay Kind = iota
	KindPaper
)

func (k Kind) String() string {
	switch k {
	case KindDisplay:
		return "display"
	case KindPaper:
		return "paper"
	}
	return "unknown canvas"
}

// IsDisplay returns true if the canvas is a display.
func (k Kind) IsDisplay() bool {
	return k == KindDisplay
}

// IsPaper returns true if the canvas is paper.
func (k Kind) IsPaper() bool {
	return k == KindPaper
}

// DefaultViewSize returns the size of a new view, in points.
func (k Kind) DefaultViewSize() Size {
	if k == KindPaper {
		// US letter at 72 points per inch
		return Size{W: 612, H: 792}
	}
	return Size{W: 768, H: 576}
}

// Size is a width and height. In points when describing a view and as a scale
// factor when describing pixel density.
type Size struct {
	W float64
	H float64
}

func (sz Size) String() string {
	return fmt.Sprintf("%gx%g", sz.W, sz.H)
}

// Geometry of the drawable.
type Geometry struct {
	// view size in points
	View Size

	// device pixels per point
	Density Size

	// size of the drawable in device pixels
	Pixels image.Point
}

// NewGeometry derives the drawable size from the view size and pixel density.
// A density of zero is treated as one.
func NewGeometry(view Size, density Size) Geometry {
	if density.W <= 0 {
		density.W = 1
	}
	if density.H <= 0 {
		density.H = 1
	}
	return Geometry{
		View:    view,
		Density: density,
		Pixels: image.Point{
			X: int(math.Round(view.W * density.W)),
			Y: int(math.Round(view.H * density.H)),
		},
	}
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s points @ %s = %dx%d pixels", g.View, g.Density, g.Pixels.X, g.Pixels.Y)
}

// Letterbox returns the largest rectangle, centred in an area of the
// specified size, that has the same aspect ratio as the frame.
func Letterbox(frame image.Point, area image.Point) image.Rectangle {
	if frame.X <= 0 || frame.Y <= 0 || area.X <= 0 || area.Y <= 0 {
		return image.Rectangle{Max: area}
	}

	scale := math.Min(float64(area.X)/float64(frame.X), float64(area.Y)/float64(frame.Y))
	w := int(math.Round(float64(frame.X) * scale))
	h := int(math.Round(float64(frame.Y) * scale))

	x := (area.X - w) / 2
	y := (area.Y - h) / 2

	return image.Rect(x, y, x+w, y+h)
}
