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

package test

import (
	"context"
	"testing"
	"time"
)

// Eventually polls the condition function until it returns true or the
// timeout has elapsed. Returns false on timeout, in which case the test has
// been marked as failed.
//
// Used by tests of goroutine driven types (the frame clock and the stream
// sessions) where the exact moment a condition becomes true is not known.
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, tags ...any) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tck := time.NewTicker(time.Millisecond)
	defer tck.Stop()

	for {
		if condition() {
			return true
		}
		select {
		case <-ctx.Done():
			t.Errorf("%scondition not met after %v", id(tags...), timeout)
			return false
		case <-tck.C:
		}
	}
}
