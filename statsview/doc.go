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

// Package statsview is an optional package that will built only when the
// statsview build constraint is present. Without the constraint Available()
// returns false and Launch() does nothing.
//
// It provides a HTTP server running locally offering runtime statistics of
// the frame clock goroutines and the stream sessions. Underlying
// funcionality provided by "github.com/go-echarts/statsview"
//
// After launch, graphical statistics will be viewable at:
//
//	localhost:12680/debug/statsview
//
// And standard Go pprof statistics available at:
//
//	localhost:12680/debug/pprof/
package statsview

// Address of the stats server if no other address is given to Launch().
const Address = "localhost:12680"

// Interval between samples in milliseconds.
const Interval = 2000

// MaxPoints is the number of samples shown in each chart.
const MaxPoints = 60

const url = "/debug/statsview"
