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

package frameclock

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/logger"
)

// Sentinal error patterns.
const (
	AlreadyRunning = "frameclock: already running"
	BadRefreshRate = "frameclock: bad refresh rate: %v"
)

// DefaultMaxSkip is the number of periods the clock can fall behind before
// the phase is reset.
const DefaultMaxSkip = 4

// the refresh rate must be within these limits.
const (
	minRate = 1.0
	maxRate = 1000.0
)

// RefreshRate is implemented by the host display.
type RefreshRate interface {
	RefreshRate() (float64, error)
}

// FixedRate implements the RefreshRate interface with a fixed value. Useful
// when there is no display.
type FixedRate float64

// RefreshRate implements the RefreshRate interface.
func (r FixedRate) RefreshRate() (float64, error) {
	return float64(r), nil
}

// Tick is sent to the Listener once per period.
type Tick struct {
	// tick number, starting at zero every time the clock is started
	Num uint64

	// time the tick was issued
	Time time.Time

	// number of periods that were dropped because the previous Tick() took
	// too long
	Skipped int
}

// Listener receives tick events. All functions are called on the timing
// goroutine.
type Listener interface {
	// called before the first tick. an error prevents the clock from starting
	ClockStarted() error

	Tick(tck Tick)

	// called after the last tick
	ClockStopped()
}

// FrameClock is the timing source.
type FrameClock struct {
	// serialises Start() and Stop()
	crit sync.Mutex

	rate     RefreshRate
	listener Listener
	perm     logger.Permission

	running atomic.Bool
	quit    chan struct{}
	done    chan struct{}

	// the rate as reported by the RefreshRate implementation at the time
	// Start() was called. only accessed by the timing goroutine once started
	hostRate float64

	// float64 bits. zero means use the host rate
	override atomic.Uint64

	maxSkip atomic.Int32

	// float32 bits of the measured rate
	actual atomic.Uint32
}

// NewFrameClock is the preferred method of initialisation for the FrameClock
// type.
func NewFrameClock(rate RefreshRate, listener Listener) *FrameClock {
	clk := &FrameClock{
		rate:     rate,
		listener: listener,
		perm:     logger.Allow,
	}
	clk.maxSkip.Store(DefaultMaxSkip)
	return clk
}

// SetLogPermission changes the permission used when adding entries to the
// log.
func (clk *FrameClock) SetLogPermission(perm logger.Permission) {
	clk.perm = perm
}

// SetMaxSkip sets the number of periods the clock can fall behind before the
// phase is reset. Values less than zero are treated as zero.
func (clk *FrameClock) SetMaxSkip(n int) {
	if n < 0 {
		n = 0
	}
	clk.maxSkip.Store(int32(n))
}

// SetRefreshOverride forces the clock to run at the specified rate rather than
// the rate of the host display. A value of zero removes the override. Takes
// effect from the next tick if the clock is running.
func (clk *FrameClock) SetRefreshOverride(hz float64) error {
	if hz != 0 && (hz < minRate || hz > maxRate || math.IsNaN(hz)) {
		return curated.Errorf(BadRefreshRate, hz)
	}
	clk.override.Store(math.Float64bits(hz))
	return nil
}

// IsRunning returns true if the clock is delivering ticks.
func (clk *FrameClock) IsRunning() bool {
	return clk.running.Load()
}

// ActualRate returns the measured tick rate.
func (clk *FrameClock) ActualRate() float32 {
	return math.Float32frombits(clk.actual.Load())
}

// Start the clock. Returns when the Listener's ClockStarted() function has
// returned. If ClockStarted() returns an error then the clock is not started
// and the error is returned.
func (clk *FrameClock) Start() error {
	clk.crit.Lock()
	defer clk.crit.Unlock()

	if clk.running.Load() {
		return curated.Errorf(AlreadyRunning)
	}

	hz, err := clk.rate.RefreshRate()
	if err != nil {
		return curated.Errorf(BadRefreshRate, err)
	}
	if hz < minRate || hz > maxRate || math.IsNaN(hz) {
		// an unusable host rate is allowed if there is an override
		o := math.Float64frombits(clk.override.Load())
		if o == 0 {
			return curated.Errorf(BadRefreshRate, hz)
		}
		hz = o
	}
	clk.hostRate = hz

	clk.quit = make(chan struct{})
	clk.done = make(chan struct{})
	started := make(chan error)

	go clk.run(started)

	if err := <-started; err != nil {
		<-clk.done
		return err
	}

	clk.running.Store(true)
	logger.Logf(clk.perm, "frameclock", "started at %.2fHz", 1/clk.period().Seconds())

	return nil
}

// Stop the clock. No tick will be delivered after Stop() has returned and the
// Listener's ClockStopped() function will have completed. It is safe to call
// Stop() on a clock that is not running.
//
// Stop() must not be called from inside the Listener's functions.
func (clk *FrameClock) Stop() {
	clk.crit.Lock()
	defer clk.crit.Unlock()

	if !clk.running.Load() {
		return
	}

	close(clk.quit)
	<-clk.done
	clk.running.Store(false)
	clk.actual.Store(0)

	logger.Log(clk.perm, "frameclock", "stopped")
}

// the current period of the clock.
func (clk *FrameClock) period() time.Duration {
	hz := math.Float64frombits(clk.override.Load())
	if hz == 0 {
		hz = clk.hostRate
	}
	return time.Duration(float64(time.Second) / hz)
}

func (clk *FrameClock) run(started chan error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(clk.done)

	if err := clk.listener.ClockStarted(); err != nil {
		started <- err
		return
	}
	defer clk.listener.ClockStopped()
	started <- nil

	var msr measurement
	msr.reset(time.Now(), 1/clk.period().Seconds())

	var num uint64
	var skipped int

	period := clk.period()
	next := time.Now().Add(period)
	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-clk.quit:
			return
		case <-timer.C:
		}

		// quit takes priority over a timer that fired at the same time
		select {
		case <-clk.quit:
			return
		default:
		}

		now := time.Now()
		clk.listener.Tick(Tick{Num: num, Time: now, Skipped: skipped})
		num++

		if rate, ok := msr.tick(now); ok {
			clk.actual.Store(math.Float32bits(rate))
		}

		// pick up rate changes
		if p := clk.period(); p != period {
			period = p
			next = now
			msr.reset(now, 1/period.Seconds())
		}

		next = next.Add(period)
		skipped = 0

		now = time.Now()
		if now.After(next) {
			missed := int(now.Sub(next) / period)
			if missed > int(clk.maxSkip.Load()) {
				next = now
				logger.Logf(clk.perm, "frameclock", "%d periods behind. resetting phase", missed)
			} else {
				next = next.Add(time.Duration(missed) * period)
			}
			skipped = missed
		}

		timer.Reset(time.Until(next))
	}
}
