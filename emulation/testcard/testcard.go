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

package testcard

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/openemulator/syncore/emulation"
)

// the colour bars from left to right.
var bars = []color.RGBA{
	{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0xc0, A: 0xff},
	{R: 0x00, G: 0xc0, B: 0x00, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xc0, A: 0xff},
}

var marker = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// DefaultMaxImageSize is the largest file that will be accepted by
// MountImage().
const DefaultMaxImageSize = 16 * 1024 * 1024

// LEDNeverAcknowledge can be given to SetLEDDelay() to create a keyboard
// controller that ignores all LED requests.
const LEDNeverAcknowledge = -1

// Machine is the test card machine.
type Machine struct {
	crit sync.Mutex

	width  int
	height int

	seq   uint64
	frame *image.RGBA

	events []emulation.InputEvent

	// the LEDs currently lit and the requested change waiting to be
	// acknowledged by the keyboard controller
	leds        emulation.LED
	pendingLEDs emulation.LED
	pending     bool
	ledDelay    int
	ledCount    int

	maxImageSize int64
	mounted      map[emulation.SlotID]string
	mountCalls   int
	unmountCalls int

	sampleRate int
	tone       float64
	phase      float64

	destroyed bool
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The frame has the specified dimensions.
func NewMachine(width int, height int) *Machine {
	return &Machine{
		width:        width,
		height:       height,
		maxImageSize: DefaultMaxImageSize,
		mounted:      make(map[emulation.SlotID]string),
		sampleRate:   48000,
		tone:         440.0,
	}
}

// Step the machine by one frame. The new frame is returned but it is also
// available through LatestFrame().
func (m *Machine) Step() emulation.Frame {
	m.crit.Lock()
	defer m.crit.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	barWidth := m.width / len(bars)
	if barWidth == 0 {
		barWidth = 1
	}

	markerX := -1
	if m.width > 0 {
		markerX = int(m.seq % uint64(m.width))
	}

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if x == markerX {
				img.SetRGBA(x, y, marker)
				continue
			}
			b := x / barWidth
			if b >= len(bars) {
				b = len(bars) - 1
			}
			img.SetRGBA(x, y, bars[b])
		}
	}

	m.seq++
	m.frame = img

	// the keyboard controller acknowledges the pending LED change after the
	// delay period
	if m.pending && m.ledDelay != LEDNeverAcknowledge {
		m.ledCount++
		if m.ledCount >= m.ledDelay {
			m.leds = m.pendingLEDs
			m.pending = false
		}
	}

	return emulation.Frame{Seq: m.seq, Image: img}
}

// LatestFrame implements the emulation.Emulation interface.
func (m *Machine) LatestFrame() emulation.Frame {
	m.crit.Lock()
	defer m.crit.Unlock()
	return emulation.Frame{Seq: m.seq, Image: m.frame}
}

// SubmitInputEvent implements the emulation.Emulation interface.
func (m *Machine) SubmitInputEvent(ev emulation.InputEvent) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	if ev.Kind == emulation.MouseDown || ev.Kind == emulation.MouseUp {
		if ev.Button < 0 || ev.Button >= emulation.MouseButtons {
			return fmt.Errorf("testcard: no mouse button %d", ev.Button)
		}
	}

	m.events = append(m.events, ev)

	if ev.Kind == emulation.KeyDown && ev.Key == emulation.KeyCapsLock {
		leds := m.leds
		if m.pending {
			leds = m.pendingLEDs
		}
		m.requestLEDs(leds ^ emulation.LEDCapsLock)
	}

	return nil
}

// KeyboardLEDs implements the emulation.Emulation interface.
func (m *Machine) KeyboardLEDs() emulation.LED {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.leds
}

// SetKeyboardLEDs implements the emulation.Emulation interface.
func (m *Machine) SetKeyboardLEDs(leds emulation.LED) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.requestLEDs(leds)
}

// must be called with the critical section locked.
func (m *Machine) requestLEDs(leds emulation.LED) {
	if m.ledDelay == 0 {
		m.leds = leds
		m.pending = false
		return
	}
	m.pendingLEDs = leds
	m.pending = true
	m.ledCount = 0
}

// SetLEDDelay sets the number of frames the keyboard controller takes to
// acknowledge a change of LED state. A value of LEDNeverAcknowledge means
// the controller never acknowledges.
func (m *Machine) SetLEDDelay(frames int) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.ledDelay = frames
}

// Events returns a copy of every input event received since the last call to
// ClearEvents().
func (m *Machine) Events() []emulation.InputEvent {
	m.crit.Lock()
	defer m.crit.Unlock()
	ev := make([]emulation.InputEvent, len(m.events))
	copy(ev, m.events)
	return ev
}

// ClearEvents forgets all recorded input events.
func (m *Machine) ClearEvents() {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.events = m.events[:0]
}

// SetMaxImageSize sets the size of the largest file that will be accepted by
// MountImage().
func (m *Machine) SetMaxImageSize(size int64) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.maxImageSize = size
}

// MountImage implements the emulation.Emulation interface. Empty files and
// files larger than the maximum image size are rejected.
func (m *Machine) MountImage(slot emulation.SlotID, path string) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	m.mountCalls++

	if _, ok := m.mounted[slot]; ok {
		return fmt.Errorf("testcard: %s is occupied", slot)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("testcard: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("testcard: not a file")
	}
	if fi.Size() == 0 {
		return fmt.Errorf("testcard: empty image")
	}
	if fi.Size() > m.maxImageSize {
		return fmt.Errorf("testcard: image too large (%d bytes)", fi.Size())
	}

	m.mounted[slot] = path

	return nil
}

// UnmountImage implements the emulation.Emulation interface.
func (m *Machine) UnmountImage(slot emulation.SlotID) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	m.unmountCalls++

	if _, ok := m.mounted[slot]; !ok {
		return fmt.Errorf("testcard: %s is empty", slot)
	}
	delete(m.mounted, slot)

	return nil
}

// Mounted returns the path of the file mounted in the slot.
func (m *Machine) Mounted(slot emulation.SlotID) (string, bool) {
	m.crit.Lock()
	defer m.crit.Unlock()
	p, ok := m.mounted[slot]
	return p, ok
}

// MountCalls returns the number of calls to MountImage() and UnmountImage().
func (m *Machine) MountCalls() (int, int) {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.mountCalls, m.unmountCalls
}

// SampleRate implements the emulation.AudioSource interface.
func (m *Machine) SampleRate() int {
	return m.sampleRate
}

// ReadAudio implements the emulation.AudioSource interface. The machine
// produces a continuous tone at a quarter of full scale.
func (m *Machine) ReadAudio(buf []float32) int {
	m.crit.Lock()
	defer m.crit.Unlock()

	n := len(buf) &^ 1
	step := 2 * math.Pi * m.tone / float64(m.sampleRate)
	for i := 0; i < n; i += 2 {
		v := float32(math.Sin(m.phase) * 0.25)
		buf[i] = v
		buf[i+1] = v
		m.phase += step
		if m.phase > 2*math.Pi {
			m.phase -= 2 * math.Pi
		}
	}

	return n
}

// Destroy implements the emulation.Destroyer interface.
func (m *Machine) Destroy() {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.destroyed = true
	m.frame = nil
	m.mounted = make(map[emulation.SlotID]string)
}

// Destroyed returns true if Destroy() has been called.
func (m *Machine) Destroyed() bool {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.destroyed
}
