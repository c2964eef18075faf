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

// Package sdlaudio implements the stream.Output interface with a queued SDL
// audio device.
package sdlaudio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/openemulator/syncore/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// number of sample frames in the SDL audio buffer. the value is a balance
// between latency and the risk of underflow and does not need to be exact
const bufferLength = 1024

// the queue is cleared if it grows beyond this amount of audio. this will
// only happen if the device consumes audio slower than it is delivered
const maxQueuedSeconds = 1

// Audio outputs sound using SDL.
type Audio struct {
	perm logger.Permission

	crit     sync.Mutex
	id       sdl.AudioDeviceID
	spec     sdl.AudioSpec
	open     bool
	maxQueue uint32

	// conversion buffer
	buf []byte
}

// NewAudio is the preferred method of initialisation for the Audio type. The
// audio device is not opened until Open() is called.
func NewAudio() *Audio {
	return &Audio{
		perm: logger.Allow,
	}
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (aud *Audio) SetLogPermission(perm logger.Permission) {
	aud.perm = perm
}

// Open implements the stream.Output interface.
func (aud *Audio) Open(sampleRate int, channels int) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if aud.open {
		sdl.CloseAudioDevice(aud.id)
		aud.open = false
	}

	if sdl.WasInit(sdl.INIT_AUDIO) == 0 {
		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return fmt.Errorf("sdlaudio: %w", err)
		}
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32,
		Channels: uint8(channels),
		Samples:  bufferLength,
	}

	// no changes are allowed to the audio spec. SDL converts the audio if the
	// device does not support the format directly
	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return fmt.Errorf("sdlaudio: %w", err)
	}
	aud.open = true
	aud.maxQueue = uint32(sampleRate * channels * 4 * maxQueuedSeconds)

	logger.Logf(aud.perm, "sdlaudio", "opened device: %dHz %d channels", aud.spec.Freq, aud.spec.Channels)

	sdl.PauseAudioDevice(aud.id, false)

	return nil
}

// Queue implements the stream.Output interface.
func (aud *Audio) Queue(samples []float32) error {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if !aud.open {
		return fmt.Errorf("sdlaudio: device is not open")
	}

	if sdl.GetQueuedAudioSize(aud.id) > aud.maxQueue {
		logger.Log(aud.perm, "sdlaudio", "audio queue overflow. clearing")
		sdl.ClearQueuedAudio(aud.id)
	}

	n := len(samples) * 4
	if cap(aud.buf) < n {
		aud.buf = make([]byte, n)
	}
	aud.buf = aud.buf[:n]
	for i, s := range samples {
		binary.LittleEndian.PutUint32(aud.buf[i*4:], math.Float32bits(s))
	}

	if err := sdl.QueueAudio(aud.id, aud.buf); err != nil {
		return fmt.Errorf("sdlaudio: %w", err)
	}

	return nil
}

// Close implements the stream.Output interface.
func (aud *Audio) Close() {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	if !aud.open {
		return
	}
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	aud.open = false
}
