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

package stream

import (
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/logger"
)

// Default format of recordings.
const (
	DefaultRecordingRate     = 44100
	DefaultRecordingChannels = 2
)

// bit depth of recordings.
const recordingDepth = 16

// number of pending sample buffers before Write() starts dropping samples.
const recordingQueue = 64

// Recording writes audio to a 16bit WAV file.
type Recording struct {
	perm logger.Permission

	crit     sync.Mutex
	state    State
	path     string
	file     *os.File
	enc      *wav.Encoder
	rate     int
	channels int

	// frames and bytes written to the encoder
	frames int64
	size   int64

	// samples sent to Write() that could not be queued
	dropped int64

	queue chan []float32
	done  chan struct{}
	err   error
}

// NewRecording is the preferred method of initialisation for the Recording
// type.
func NewRecording() *Recording {
	return &Recording{
		perm:     logger.Allow,
		rate:     DefaultRecordingRate,
		channels: DefaultRecordingChannels,
	}
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (rec *Recording) SetLogPermission(perm logger.Permission) {
	rec.perm = perm
}

// SetFormat sets the sample rate and the number of interleaved channels of
// the next file to be opened.
func (rec *Recording) SetFormat(sampleRate int, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return curated.Errorf("stream: recording: bad format: %dHz %d channels", sampleRate, channels)
	}

	rec.crit.Lock()
	defer rec.crit.Unlock()
	rec.rate = sampleRate
	rec.channels = channels

	return nil
}

// Open creates the WAV file at path. Any existing file is replaced. The
// session must be idle and have no other file open.
func (rec *Recording) Open(path string) error {
	rec.crit.Lock()
	defer rec.crit.Unlock()

	if rec.state != Idle || rec.file != nil {
		return curated.Errorf(InvalidState, "open", "a file is open")
	}

	if filetypes.Ext(path) != ".wav" {
		return curated.Errorf(InvalidPath, "recordings must be WAV files")
	}

	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf(StreamOpenFailure, err)
	}

	rec.path = path
	rec.file = f
	rec.enc = wav.NewEncoder(f, rec.rate, recordingDepth, rec.channels, 1)
	rec.frames = 0
	rec.size = 0
	rec.dropped = 0
	rec.err = nil

	logger.Logf(rec.perm, "recording", "opened %s (%dHz, %d channels)", path, rec.rate, rec.channels)

	return nil
}

// Close stops any recording and releases the file. Always succeeds. Errors
// that occur while finalising the file are reported by Err() until the next
// call to Open().
func (rec *Recording) Close() {
	rec.Stop()

	rec.crit.Lock()
	defer rec.crit.Unlock()

	// a file that was opened but never recorded to
	if rec.enc != nil {
		rec.finalise()
	}

	rec.path = ""
	rec.frames = 0
	rec.size = 0
}

// Record starts recording. Recording can only be started once for each
// opened file.
func (rec *Recording) Record() error {
	rec.crit.Lock()
	defer rec.crit.Unlock()

	if rec.enc == nil {
		return curated.Errorf(InvalidState, "record", "no file is open")
	}
	if rec.state != Idle {
		return curated.Errorf(InvalidState, "record", rec.state)
	}

	rec.state = Active
	rec.queue = make(chan []float32, recordingQueue)
	rec.done = make(chan struct{})
	go rec.run(rec.queue, rec.done)

	logger.Logf(rec.perm, "recording", "recording to %s", rec.path)

	return nil
}

// Stop recording and complete the file. Position(), Total() and Size() no
// longer change after Stop() returns. Has no effect if the session is not
// recording.
func (rec *Recording) Stop() {
	rec.crit.Lock()
	if rec.state != Active {
		rec.crit.Unlock()
		return
	}
	rec.state = Idle
	close(rec.queue)
	done := rec.done
	rec.queue = nil
	rec.done = nil
	rec.crit.Unlock()

	<-done

	rec.crit.Lock()
	defer rec.crit.Unlock()
	if rec.dropped > 0 {
		logger.Logf(rec.perm, "recording", "%d samples dropped", rec.dropped)
	}
	logger.Logf(rec.perm, "recording", "stopped after %v (%d bytes)", framesToDuration(rec.frames, rec.rate), rec.size)
}

// Write interleaved samples to the recording. Samples are ignored if the
// session is not recording. The samples are copied and the function does not
// wait for them to be written to disk.
func (rec *Recording) Write(samples []float32) {
	rec.crit.Lock()
	defer rec.crit.Unlock()

	if rec.state != Active {
		return
	}

	n := len(samples) - len(samples)%rec.channels
	if n == 0 {
		return
	}

	c := make([]float32, n)
	copy(c, samples)

	select {
	case rec.queue <- c:
	default:
		rec.dropped += int64(n)
	}
}

// IsActive returns true if audio is being recorded.
func (rec *Recording) IsActive() bool {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return rec.state == Active
}

// State of the recording session.
func (rec *Recording) State() State {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return rec.state
}

// Position is the duration of audio written to the file.
func (rec *Recording) Position() time.Duration {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return framesToDuration(rec.frames, rec.rate)
}

// Total is the same as Position(). A recording ends where it is.
func (rec *Recording) Total() time.Duration {
	return rec.Position()
}

// Size is the number of bytes of sample data written to the file. The size
// of the WAV header is not included.
func (rec *Recording) Size() int64 {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return rec.size
}

// Err returns the most recent write error.
func (rec *Recording) Err() error {
	rec.crit.Lock()
	defer rec.crit.Unlock()
	return rec.err
}

func (rec *Recording) run(queue chan []float32, done chan struct{}) {
	defer close(done)

	rec.crit.Lock()
	enc := rec.enc
	format := &audio.Format{NumChannels: rec.channels, SampleRate: rec.rate}
	rec.crit.Unlock()

	buf := &audio.IntBuffer{
		Format:         format,
		SourceBitDepth: recordingDepth,
	}

	for samples := range queue {
		buf.Data = buf.Data[:0]
		for _, s := range samples {
			if s > 1.0 {
				s = 1.0
			} else if s < -1.0 {
				s = -1.0
			}
			buf.Data = append(buf.Data, int(s*32767))
		}

		err := enc.Write(buf)

		rec.crit.Lock()
		if err != nil {
			if rec.err == nil {
				rec.err = curated.Errorf("stream: recording: %v", err)
			}
		} else {
			rec.frames += int64(len(samples) / format.NumChannels)
			rec.size += int64(len(samples) * recordingDepth / 8)
		}
		rec.crit.Unlock()
	}

	rec.crit.Lock()
	defer rec.crit.Unlock()
	rec.finalise()
}

// complete the WAV header and close the file. must be called with the
// critical section locked.
func (rec *Recording) finalise() {
	if rec.enc == nil {
		return
	}

	if err := rec.enc.Close(); err != nil && rec.err == nil {
		rec.err = curated.Errorf("stream: recording: %v", err)
	}
	if err := rec.file.Close(); err != nil && rec.err == nil {
		rec.err = curated.Errorf("stream: recording: %v", err)
	}

	rec.enc = nil
	rec.file = nil
}
