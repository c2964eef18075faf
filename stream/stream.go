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
	"time"
)

// Sentinal error patterns.
const (
	InvalidPath       = "stream: invalid path: %v"
	StreamOpenFailure = "stream: open failure: %v"
	InvalidState      = "stream: %s: not possible while %s"
)

// State of a stream session.
type State int

// List of valid State values.
const (
	Idle State = iota
	Active
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// ChunkDuration is the amount of audio delivered to the Output in one go
// during playback.
const ChunkDuration = 20 * time.Millisecond

// Output is the destination of playback audio. Implementations should not
// block in Queue() for longer than it takes to copy the samples.
type Output interface {
	// Open the output for samples of the given rate and number of
	// interleaved channels.
	Open(sampleRate int, channels int) error

	// Queue interleaved samples in the range -1.0 to 1.0.
	Queue(samples []float32) error

	// Close the output. Must be safe to call on an output that failed to
	// open.
	Close()
}

// duration of n frames at the sample rate.
func framesToDuration(n int64, rate int) time.Duration {
	if rate <= 0 || n <= 0 {
		return 0
	}
	r := int64(rate)
	return time.Duration(n/r)*time.Second + time.Duration(n%r)*time.Second/time.Duration(r)
}

// number of frames in the duration at the sample rate. whole seconds and the
// remainder are scaled separately so that the result does not overflow for
// any duration.
func durationToFrames(d time.Duration, rate int) int64 {
	if rate <= 0 || d <= 0 {
		return 0
	}
	r := int64(rate)
	return int64(d/time.Second)*r + int64(d%time.Second)*r/int64(time.Second)
}
