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

// Package logger is the central log for the synchronisation core. There is
// only one log for the entire process and it is safe to add entries to it from
// any goroutine: the timing goroutine, the host UI goroutine and the stream
// goroutines all log through it.
//
// Entries are made with a tag and a detail string:
//
//	logger.Log(logger.Allow, "frameclock", "started at 60.00Hz")
//
// The first argument is a Permission. This gives the caller a way of muting a
// particular context without littering the calling code with conditionals. The
// environment.Environment type implements Permission.
//
// Adjacent entries with the same tag and detail are collapsed into a single
// entry with a repeat count.
package logger
