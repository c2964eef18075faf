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

import "time"

// measurement of the actual rate. the rate is calculated after a number of
// ticks equal to the most recently measured rate, which means a new value is
// available approximately once per second.
type measurement struct {
	count   int
	target  int
	refTime time.Time
}

func (msr *measurement) reset(now time.Time, expected float64) {
	msr.count = 0
	msr.target = int(expected) / 2
	if msr.target < 1 {
		msr.target = 1
	}
	msr.refTime = now
}

// returns the newly measured rate and true if a measurement has been made.
func (msr *measurement) tick(now time.Time) (float32, bool) {
	msr.count++
	if msr.count < msr.target {
		return 0, false
	}

	d := now.Sub(msr.refTime).Seconds()
	if d <= 0 {
		return 0, false
	}
	rate := float32(float64(msr.count) / d)

	if rate > 1 {
		msr.target = int(rate)
	} else {
		msr.target = 1
	}
	msr.count = 0
	msr.refTime = now

	return rate, true
}
