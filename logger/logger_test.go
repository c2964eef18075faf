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

package logger_test

import (
	"testing"

	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/test"
)

func TestLogger(t *testing.T) {
	logger.Clear()
	tw := &test.CompareWriter{}

	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))

	logger.Log(logger.Allow, "test", "this is a test")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\n"))

	tw.Clear()
	logger.Log(logger.Allow, "test2", "this is another test")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	logger.Tail(tw, 100)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	tw.Clear()
	logger.Tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test\n"))

	tw.Clear()
	logger.Tail(tw, 0)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestRepeatedEntries(t *testing.T) {
	logger.Clear()
	tw := &test.CompareWriter{}

	logger.Log(logger.Allow, "tick", "late")
	logger.Log(logger.Allow, "tick", "late")
	logger.Logf(logger.Allow, "tick", "%s", "late")
	logger.Write(tw)
	test.ExpectEquality(t, tw.String(), "tick: late (repeat x3)\n")
}

func TestPermission(t *testing.T) {
	logger.Clear()
	tw := &test.CompareWriter{}

	logger.Log(logger.Deny, "muted", "should not appear")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestWriteRecent(t *testing.T) {
	logger.Clear()
	tw := &test.CompareWriter{}

	logger.Log(logger.Allow, "a", "one")
	logger.WriteRecent(tw)
	test.ExpectEquality(t, tw.String(), "a: one\n")

	tw.Clear()
	logger.Log(logger.Allow, "b", "two")
	logger.WriteRecent(tw)
	test.ExpectEquality(t, tw.String(), "b: two\n")

	tw.Clear()
	logger.WriteRecent(tw)
	test.ExpectEquality(t, tw.String(), "")
}

func TestMaximumEntries(t *testing.T) {
	logger.Clear()
	for i := 0; i < 1000; i++ {
		logger.Logf(logger.Allow, "count", "%d", i)
	}

	var n int
	var last string
	logger.BorrowLog(func(entries []logger.Entry) {
		n = len(entries)
		last = entries[len(entries)-1].Detail
	})
	test.ExpectEquality(t, n, 256)
	test.ExpectEquality(t, last, "999")
}
