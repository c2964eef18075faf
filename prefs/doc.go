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

// Package prefs provides the preference values used to configure the
// synchronisation core, and a way of saving them to disk.
//
// The Bool, Int, Float and String types are safe to read from any goroutine.
// This is important because preferences are read by the timing goroutine
// (the frame clock for example) while they are changed by the UI goroutine.
//
// Each type can have callbacks attached with SetHookPre() and SetHookPost().
// The pre-hook can veto a new value by returning an error. The post-hook is
// the usual way of pushing a new value to the component that uses it.
//
// Values are stored on disk with the Disk type. Each value is added to the
// Disk with a unique key:
//
//	dsk, _ := prefs.NewDisk(paths.ResourcePath("preferences"))
//	_ = dsk.Add("frameclock.maxSkip", &maxSkip)
//	_ = dsk.Load()
//
// The on-disk format is one "key :: value" entry per line. Entries for keys
// that have not been added to the Disk are preserved when the file is saved.
//
// Values can also be set from the command line with a string of the form:
//
//	"frameclock.maxSkip::2; input.pasteInterval::10"
//
// See PushCommandLineStack(). Command line values take priority over values
// loaded from disk.
package prefs
