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

// Package frameclock is the fixed rate timing source that drives
// presentation. Ticks are issued at the refresh rate of the host display on
// a dedicated goroutine that is locked to its OS thread. Anything that needs
// a thread-bound context (a GPU context for example) should be acquired in
// the Listener's ClockStarted() function and released in ClockStopped().
//
// Late ticks are never queued. If a Tick() takes longer than the tick period
// the next tick is delivered immediately and the number of dropped periods
// is reported in the Skipped field. If the clock falls more than the maximum
// number of skippable periods behind then it resets its phase to the current
// time.
package frameclock
