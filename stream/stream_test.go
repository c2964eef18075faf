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

package stream_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/notifications"
	"github.com/openemulator/syncore/stream"
	"github.com/openemulator/syncore/test"
)

// output collects every sample queued to it.
type output struct {
	crit     sync.Mutex
	rate     int
	channels int
	samples  []float32
	opened   int
	closed   int
	openErr  error
}

func (o *output) Open(rate int, channels int) error {
	o.crit.Lock()
	defer o.crit.Unlock()
	o.opened++
	o.rate = rate
	o.channels = channels
	return o.openErr
}

func (o *output) Queue(samples []float32) error {
	o.crit.Lock()
	defer o.crit.Unlock()
	o.samples = append(o.samples, samples...)
	return nil
}

func (o *output) Close() {
	o.crit.Lock()
	defer o.crit.Unlock()
	o.closed++
}

func (o *output) len() int {
	o.crit.Lock()
	defer o.crit.Unlock()
	return len(o.samples)
}

// notices counts notifications.
type notices struct {
	crit  sync.Mutex
	ended int
}

func (n *notices) Notify(notice notifications.Notice) error {
	n.crit.Lock()
	defer n.crit.Unlock()
	if notice == notifications.NotifyPlaybackEnded {
		n.ended++
	}
	return nil
}

func (n *notices) count() int {
	n.crit.Lock()
	defer n.crit.Unlock()
	return n.ended
}

// write a 16bit wav file with a constant value in every sample.
func writeWav(t *testing.T, path string, rate int, channels int, frames int) {
	t.Helper()

	f, err := os.Create(path)
	test.DemandSuccess(t, err)

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
		Data:           make([]int, frames*channels),
	}
	for i := range buf.Data {
		buf.Data[i] = 8192
	}

	test.DemandSuccess(t, enc.Write(buf))
	test.DemandSuccess(t, enc.Close())
	test.DemandSuccess(t, f.Close())
}

func newPlayback(t *testing.T) (*stream.Playback, *output, *notices) {
	t.Helper()
	out := &output{}
	n := &notices{}
	pb := stream.NewPlayback(out, n, filetypes.Default())
	pb.SetLogPermission(logger.Deny)
	t.Cleanup(pb.Close)
	return pb, out, n
}

func TestPlaybackToEnd(t *testing.T) {
	pb, out, n := newPlayback(t)

	pth := filepath.Join(t.TempDir(), "short.wav")
	writeWav(t, pth, 8000, 1, 800)

	test.DemandSuccess(t, pb.Open(pth))
	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectEquality(t, pb.Total(), 100*time.Millisecond)
	test.ExpectEquality(t, pb.Position(), time.Duration(0))

	test.DemandSuccess(t, pb.Play())
	test.ExpectEquality(t, out.rate, 8000)
	test.ExpectEquality(t, out.channels, 1)

	test.Eventually(t, 5*time.Second, func() bool {
		return n.count() == 1
	}, "playback end notification")

	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectFailure(t, pb.IsActive())
	test.ExpectSuccess(t, pb.Err() == nil)
	test.ExpectEquality(t, out.len(), 800)
	test.ExpectEquality(t, pb.Position(), pb.Total())

	// samples are normalised
	test.ExpectEquality(t, out.samples[0], float32(0.25))

	// playing again starts from the beginning
	test.DemandSuccess(t, pb.Play())
	test.Eventually(t, 5*time.Second, func() bool {
		return n.count() == 2
	}, "second playback end notification")
	test.ExpectEquality(t, out.len(), 1600)

	// the output is opened once for each file
	pb.Close()
	test.ExpectEquality(t, out.opened, 1)
	test.ExpectEquality(t, out.closed, 1)
	test.ExpectEquality(t, pb.Total(), time.Duration(0))
}

func TestPlaybackPauseAndSeek(t *testing.T) {
	pb, out, _ := newPlayback(t)

	pth := filepath.Join(t.TempDir(), "long.wav")
	writeWav(t, pth, 8000, 2, 8000*10)

	test.DemandSuccess(t, pb.Open(pth))

	// seek is not possible until playback has started
	err := pb.Seek(time.Second)
	test.ExpectSuccess(t, curated.Is(err, stream.InvalidState))

	// pause and resume are not possible either
	test.ExpectSuccess(t, curated.Is(pb.Pause(), stream.InvalidState))
	test.ExpectSuccess(t, curated.Is(pb.Resume(), stream.InvalidState))

	test.DemandSuccess(t, pb.Play())
	test.ExpectSuccess(t, pb.IsActive())
	test.ExpectSuccess(t, curated.Is(pb.Play(), stream.InvalidState))

	test.DemandSuccess(t, pb.Pause())
	test.ExpectEquality(t, pb.State(), stream.Paused)
	test.ExpectFailure(t, pb.IsActive())

	// nothing is delivered while paused
	pos := pb.Position()
	delivered := out.len()
	time.Sleep(3 * stream.ChunkDuration)
	test.ExpectEquality(t, pb.Position(), pos)
	test.ExpectEquality(t, out.len(), delivered)

	test.DemandSuccess(t, pb.Seek(4*time.Second))
	test.ExpectEquality(t, pb.Position(), 4*time.Second)

	// seeking past the end clamps to the end
	test.DemandSuccess(t, pb.Seek(time.Minute))
	test.ExpectEquality(t, pb.Position(), pb.Total())

	test.DemandSuccess(t, pb.Seek(time.Second))
	test.DemandSuccess(t, pb.Resume())
	test.ExpectSuccess(t, pb.IsActive())

	test.Eventually(t, 5*time.Second, func() bool {
		return pb.Position() > time.Second
	}, "position advancing after resume")

	pb.Close()
	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectEquality(t, out.closed, 1)

	// nothing more is delivered after close
	delivered = out.len()
	time.Sleep(3 * stream.ChunkDuration)
	test.ExpectEquality(t, out.len(), delivered)
}

func TestPlaybackOpenFailure(t *testing.T) {
	pb, out, _ := newPlayback(t)
	dir := t.TempDir()

	test.ExpectSuccess(t, pb.Err() == nil)

	// the reason for a failed open is also available from Err()
	err := pb.Open(filepath.Join(dir, "song.ogg"))
	test.ExpectSuccess(t, curated.Is(err, stream.InvalidPath))
	test.ExpectSuccess(t, curated.Is(pb.Err(), stream.InvalidPath))

	err = pb.Open(filepath.Join(dir, "missing.wav"))
	test.ExpectSuccess(t, curated.Is(err, stream.InvalidPath))
	test.ExpectSuccess(t, curated.Is(pb.Err(), stream.InvalidPath))

	bad := filepath.Join(dir, "bad.wav")
	test.DemandSuccess(t, os.WriteFile(bad, []byte("this is not a wav file"), 0o644))
	err = pb.Open(bad)
	test.ExpectSuccess(t, curated.Is(err, stream.StreamOpenFailure))
	test.ExpectSuccess(t, curated.Is(pb.Err(), stream.StreamOpenFailure))

	// never half open
	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectEquality(t, pb.Total(), time.Duration(0))
	test.ExpectSuccess(t, curated.Is(pb.Play(), stream.InvalidState))
	test.ExpectEquality(t, out.opened, 0)

	// a good file can be opened afterwards
	good := filepath.Join(dir, "good.wav")
	writeWav(t, good, 8000, 1, 80)
	test.ExpectSuccess(t, pb.Open(good))
	test.ExpectSuccess(t, pb.Err() == nil)

	// but not twice
	test.ExpectSuccess(t, curated.Is(pb.Open(good), stream.InvalidState))
}

func TestPlaybackOutputFailure(t *testing.T) {
	pb, out, _ := newPlayback(t)
	out.openErr = errors.New("no audio device")

	pth := filepath.Join(t.TempDir(), "short.wav")
	writeWav(t, pth, 8000, 1, 80)
	test.DemandSuccess(t, pb.Open(pth))

	err := pb.Play()
	test.ExpectSuccess(t, curated.Is(err, stream.StreamOpenFailure))
	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectSuccess(t, pb.Err() != nil)
	test.ExpectEquality(t, out.closed, 1)
}

func TestPlaybackSeekLimits(t *testing.T) {
	pb, out, n := newPlayback(t)

	pth := filepath.Join(t.TempDir(), "second.wav")
	writeWav(t, pth, 44100, 2, 44100)

	test.DemandSuccess(t, pb.Open(pth))
	test.ExpectEquality(t, pb.Total(), time.Second)
	test.DemandSuccess(t, pb.Play())
	test.DemandSuccess(t, pb.Pause())

	for _, pos := range []time.Duration{60 * time.Hour, time.Duration(math.MaxInt64)} {
		test.DemandSuccess(t, pb.Seek(pos))
		test.ExpectEquality(t, pb.Position(), pb.Total())
	}

	test.DemandSuccess(t, pb.Seek(time.Duration(math.MinInt64)))
	test.ExpectEquality(t, pb.Position(), time.Duration(0))

	// resuming at the end finishes the stream without delivering anything
	test.DemandSuccess(t, pb.Seek(time.Duration(math.MaxInt64)))
	delivered := out.len()
	test.DemandSuccess(t, pb.Resume())
	test.Eventually(t, 5*time.Second, func() bool {
		return n.count() == 1
	}, "playback end notification")
	test.ExpectEquality(t, out.len(), delivered)
	test.ExpectEquality(t, pb.State(), stream.Idle)
	test.ExpectSuccess(t, pb.Err() == nil)
}

func TestPlaybackPauseResumeConcurrency(t *testing.T) {
	pb, out, _ := newPlayback(t)

	pth := filepath.Join(t.TempDir(), "minute.wav")
	writeWav(t, pth, 8000, 1, 8000*60)

	test.DemandSuccess(t, pb.Open(pth))
	test.DemandSuccess(t, pb.Play())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = pb.Pause()
				_ = pb.Resume()
			}
		}()
	}
	wg.Wait()

	if pb.State() == stream.Paused {
		test.DemandSuccess(t, pb.Resume())
	}
	test.DemandSuccess(t, pb.IsActive())

	// a single goroutine delivers no more than one chunk per tick. 160 frames
	// is one chunk at 8000Hz
	begin := time.Now()
	start := out.len()
	time.Sleep(10 * stream.ChunkDuration)
	delivered := out.len() - start
	limit := (int(time.Since(begin)/stream.ChunkDuration) + 2) * 160
	test.ExpectSuccess(t, delivered <= limit)

	// nothing is delivered after close
	pb.Close()
	delivered = out.len()
	time.Sleep(5 * stream.ChunkDuration)
	test.ExpectEquality(t, out.len(), delivered)
}

func TestPlaybackMP3(t *testing.T) {
	pb, out, n := newPlayback(t)

	// ten frames of silence at 44100Hz. 1152 frames per mp3 frame
	test.DemandSuccess(t, pb.Open(filepath.Join("testdata", "silence.mp3")))
	total := pb.Total()
	test.ExpectSuccess(t, total > 200*time.Millisecond)
	test.ExpectSuccess(t, total <= 300*time.Millisecond)

	test.DemandSuccess(t, pb.Play())
	test.ExpectEquality(t, out.rate, 44100)
	test.ExpectEquality(t, out.channels, 2)

	test.Eventually(t, 5*time.Second, func() bool {
		return n.count() == 1
	}, "playback end notification")
	test.ExpectSuccess(t, pb.Err() == nil)
	test.ExpectEquality(t, pb.Position(), total)

	delivered := out.len()
	test.ExpectEquality(t, delivered%2, 0)
	test.ExpectSuccess(t, delivered >= 10*1152*2)

	out.crit.Lock()
	defer out.crit.Unlock()
	var peak float32
	for _, v := range out.samples {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	test.ExpectSuccess(t, peak < 0.001)
}

func newRecording(t *testing.T) *stream.Recording {
	t.Helper()
	rec := stream.NewRecording()
	rec.SetLogPermission(logger.Deny)
	t.Cleanup(rec.Close)
	return rec
}

func TestRecording(t *testing.T) {
	rec := newRecording(t)
	test.DemandSuccess(t, rec.SetFormat(8000, 2))

	pth := filepath.Join(t.TempDir(), "capture.wav")
	test.DemandSuccess(t, rec.Open(pth))
	test.ExpectFailure(t, rec.IsActive())

	// samples are ignored before recording starts
	rec.Write(make([]float32, 100))
	test.ExpectEquality(t, rec.Size(), int64(0))

	test.DemandSuccess(t, rec.Record())
	test.ExpectSuccess(t, rec.IsActive())
	test.ExpectSuccess(t, curated.Is(rec.Record(), stream.InvalidState))

	chunk := make([]float32, 160*2)
	for i := range chunk {
		chunk[i] = 0.5
	}
	for i := 0; i < 5; i++ {
		rec.Write(chunk)
	}

	rec.Stop()
	test.ExpectFailure(t, rec.IsActive())
	test.ExpectSuccess(t, rec.Err() == nil)

	size := rec.Size()
	position := rec.Position()
	test.ExpectEquality(t, size, int64(800*2*2))
	test.ExpectEquality(t, position, 100*time.Millisecond)
	test.ExpectEquality(t, rec.Total(), position)

	// the file holds at least the reported number of bytes
	fi, err := os.Stat(pth)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, fi.Size() >= size)

	// nothing changes after stop
	rec.Write(chunk)
	test.ExpectEquality(t, rec.Size(), size)
	test.ExpectEquality(t, rec.Position(), position)

	// stop is the end of the recording
	test.ExpectSuccess(t, curated.Is(rec.Record(), stream.InvalidState))

	// the file can be played back
	pb, _, _ := newPlayback(t)
	test.DemandSuccess(t, pb.Open(pth))
	test.ExpectEquality(t, pb.Total(), 100*time.Millisecond)
}

func TestRecordingOpenFailure(t *testing.T) {
	rec := newRecording(t)
	dir := t.TempDir()

	err := rec.Open(filepath.Join(dir, "capture.mp3"))
	test.ExpectSuccess(t, curated.Is(err, stream.InvalidPath))

	err = rec.Open(filepath.Join(dir, "missing", "capture.wav"))
	test.ExpectSuccess(t, curated.Is(err, stream.StreamOpenFailure))

	test.ExpectEquality(t, rec.State(), stream.Idle)
	test.ExpectSuccess(t, curated.Is(rec.Record(), stream.InvalidState))

	test.ExpectFailure(t, rec.SetFormat(0, 2))
}

func TestController(t *testing.T) {
	out := &output{}
	ctl := stream.NewController(out, nil, filetypes.Default())
	ctl.SetLogPermission(logger.Deny)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeWav(t, in, 8000, 1, 8000*10)

	test.DemandSuccess(t, ctl.Playback.Open(in))
	test.DemandSuccess(t, ctl.Recording.Open(filepath.Join(dir, "out.wav")))
	test.DemandSuccess(t, ctl.Playback.Play())
	test.DemandSuccess(t, ctl.Recording.Record())

	// the sessions are independent
	test.ExpectSuccess(t, ctl.Playback.IsActive())
	test.ExpectSuccess(t, ctl.Recording.IsActive())
	ctl.Recording.Stop()
	test.ExpectSuccess(t, ctl.Playback.IsActive())

	ctl.Close()
	test.ExpectFailure(t, ctl.Playback.IsActive())
	test.ExpectFailure(t, ctl.Recording.IsActive())
	test.ExpectEquality(t, out.closed, 1)
}
