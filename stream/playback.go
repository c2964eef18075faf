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
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
)

// Playback plays an audio file to an Output.
type Playback struct {
	out    Output
	notify notifications.Notify
	types  *filetypes.Registry
	perm   logger.Permission

	crit  sync.Mutex
	state State
	path  string
	pcm   *pcm
	pos   int64
	err   error

	// the output is opened on the first Play() after Open()
	outOpen bool

	// control of the playback goroutine. nil when the goroutine has not been
	// started
	quit chan struct{}
	done chan struct{}

	// generation of the playback goroutine. a goroutine that finds the
	// generation has moved on must not touch the output
	gen int
}

// NewPlayback is the preferred method of initialisation for the Playback
// type. The notify argument can be nil.
func NewPlayback(out Output, notify notifications.Notify, types *filetypes.Registry) *Playback {
	return &Playback{
		out:    out,
		notify: notify,
		types:  types,
		perm:   logger.Allow,
	}
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (pb *Playback) SetLogPermission(perm logger.Permission) {
	pb.perm = perm
}

// Open the audio file at path. The session must be idle and have no other
// file open. The entire file is decoded before the function returns and the
// file is closed.
func (pb *Playback) Open(path string) error {
	pb.crit.Lock()
	defer pb.crit.Unlock()

	if pb.state != Idle || pb.pcm != nil {
		return curated.Errorf(InvalidState, "open", "a file is open")
	}

	pb.err = nil

	if !pb.types.IsAudio(path) {
		pb.err = curated.Errorf(InvalidPath, "unrecognised file extension")
		return pb.err
	}

	p, err := decode(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			pb.err = curated.Errorf(InvalidPath, err)
		} else {
			pb.err = curated.Errorf(StreamOpenFailure, err)
		}
		return pb.err
	}

	pb.path = path
	pb.pcm = p
	pb.pos = 0

	logger.Logf(pb.perm, "playback", "opened %s (%dHz, %d channels, %v)", path, p.sampleRate, p.channels,
		framesToDuration(p.frames(), p.sampleRate))

	return nil
}

// Close stops playback and releases the file and the output. Always
// succeeds.
func (pb *Playback) Close() {
	pb.crit.Lock()
	quit, done := pb.detach()

	if pb.outOpen {
		pb.out.Close()
		pb.outOpen = false
	}

	if pb.pcm != nil {
		logger.Logf(pb.perm, "playback", "closed %s", pb.path)
	}

	pb.state = Idle
	pb.path = ""
	pb.pcm = nil
	pb.pos = 0
	pb.err = nil
	pb.crit.Unlock()

	halt(quit, done)
}

// Play starts playback from the current position. If the previous playback
// reached the end of the stream then playback starts from the beginning.
func (pb *Playback) Play() error {
	pb.crit.Lock()
	defer pb.crit.Unlock()

	if pb.pcm == nil {
		return curated.Errorf(InvalidState, "play", "no file is open")
	}
	if pb.state != Idle {
		return curated.Errorf(InvalidState, "play", pb.state)
	}

	if !pb.outOpen {
		if err := pb.out.Open(pb.pcm.sampleRate, pb.pcm.channels); err != nil {
			pb.out.Close()
			pb.err = curated.Errorf(StreamOpenFailure, err)
			return pb.err
		}
		pb.outOpen = true
	}

	if pb.pos >= pb.pcm.frames() {
		pb.pos = 0
	}

	pb.err = nil
	pb.state = Active
	pb.start()

	return nil
}

// Pause playback. The position is kept.
func (pb *Playback) Pause() error {
	pb.crit.Lock()
	if pb.state != Active {
		defer pb.crit.Unlock()
		return curated.Errorf(InvalidState, "pause", pb.state)
	}
	pb.state = Paused
	quit, done := pb.detach()
	pb.crit.Unlock()

	halt(quit, done)

	return nil
}

// Resume paused playback.
func (pb *Playback) Resume() error {
	pb.crit.Lock()
	defer pb.crit.Unlock()

	if pb.state != Paused {
		return curated.Errorf(InvalidState, "resume", pb.state)
	}

	pb.state = Active
	pb.start()

	return nil
}

// Seek to the position in the stream. Only possible while active or paused.
// Positions past the end of the stream are clamped to the end and negative
// positions to the start.
func (pb *Playback) Seek(position time.Duration) error {
	pb.crit.Lock()
	defer pb.crit.Unlock()

	if pb.state != Active && pb.state != Paused {
		return curated.Errorf(InvalidState, "seek", pb.state)
	}

	total := pb.pcm.frames()
	if position >= framesToDuration(total, pb.pcm.sampleRate) {
		pb.pos = total
		return nil
	}

	pb.pos = durationToFrames(position, pb.pcm.sampleRate)
	if pb.pos > total {
		pb.pos = total
	}

	return nil
}

// IsActive returns true if audio is being played. A paused session is not
// active.
func (pb *Playback) IsActive() bool {
	pb.crit.Lock()
	defer pb.crit.Unlock()
	return pb.state == Active
}

// State of the playback session.
func (pb *Playback) State() State {
	pb.crit.Lock()
	defer pb.crit.Unlock()
	return pb.state
}

// Position of playback in the stream.
func (pb *Playback) Position() time.Duration {
	pb.crit.Lock()
	defer pb.crit.Unlock()
	if pb.pcm == nil {
		return 0
	}
	return framesToDuration(pb.pos, pb.pcm.sampleRate)
}

// Total duration of the stream.
func (pb *Playback) Total() time.Duration {
	pb.crit.Lock()
	defer pb.crit.Unlock()
	if pb.pcm == nil {
		return 0
	}
	return framesToDuration(pb.pcm.frames(), pb.pcm.sampleRate)
}

// Err returns the error that caused the most recent playback to stop, if
// any.
func (pb *Playback) Err() error {
	pb.crit.Lock()
	defer pb.crit.Unlock()
	return pb.err
}

// launch a new playback goroutine. any previous goroutine is told to quit
// but is not waited for. must be called with the critical section locked.
func (pb *Playback) start() {
	quit, _ := pb.detach()
	if quit != nil {
		close(quit)
	}

	pb.quit = make(chan struct{})
	pb.done = make(chan struct{})
	go pb.run(pb.path, pb.gen, pb.quit, pb.done)
}

// disown the current playback goroutine. the goroutine will not deliver any
// more audio after this call even if it is not yet stopped. the returned
// channels should be passed to halt(). must be called with the critical
// section locked.
func (pb *Playback) detach() (chan struct{}, chan struct{}) {
	quit := pb.quit
	done := pb.done
	pb.quit = nil
	pb.done = nil
	pb.gen++
	return quit, done
}

// stop a detached playback goroutine and wait for it to end. must be called
// with the critical section unlocked.
func halt(quit chan struct{}, done chan struct{}) {
	if quit == nil {
		return
	}
	close(quit)
	<-done
}

func (pb *Playback) run(path string, gen int, quit chan struct{}, done chan struct{}) {
	defer close(done)

	tck := time.NewTicker(ChunkDuration)
	defer tck.Stop()

	for {
		res, err := pb.feed(gen)
		if err != nil {
			logger.Logf(pb.perm, "playback", "output: %v", err)
			return
		}
		switch res {
		case feedStopped:
			return
		case feedEnded:
			logger.Logf(pb.perm, "playback", "end of %s", path)
			if pb.notify != nil {
				if err := pb.notify.Notify(notifications.NotifyPlaybackEnded); err != nil {
					logger.Logf(pb.perm, "playback", "notify: %v", err)
				}
			}
			return
		}

		select {
		case <-quit:
			return
		case <-tck.C:
		}
	}
}

type feedResult int

const (
	feedMore feedResult = iota
	feedEnded
	feedStopped
)

// deliver one chunk of audio to the output on behalf of the playback goroutine
// of the given generation. when the end of the stream is reached the state is
// returned to idle.
func (pb *Playback) feed(gen int) (feedResult, error) {
	pb.crit.Lock()
	defer pb.crit.Unlock()

	// the goroutine has been detached or the session paused since the last
	// chunk
	if gen != pb.gen || pb.state != Active {
		return feedStopped, nil
	}

	total := pb.pcm.frames()
	if pb.pos >= total {
		pb.state = Idle
		return feedEnded, nil
	}

	n := durationToFrames(ChunkDuration, pb.pcm.sampleRate)
	if n < 1 {
		n = 1
	}
	if pb.pos+n > total {
		n = total - pb.pos
	}

	ch := int64(pb.pcm.channels)
	chunk := pb.pcm.data[pb.pos*ch : (pb.pos+n)*ch]

	if err := pb.out.Queue(chunk); err != nil {
		pb.state = Idle
		pb.err = curated.Errorf("stream: playback: %v", err)
		return feedStopped, pb.err
	}

	pb.pos += n

	return feedMore, nil
}
