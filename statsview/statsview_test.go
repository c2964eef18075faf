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

package statsview_test

import (
	"bytes"
	"testing"

	"github.com/openemulator/syncore/statsview"
	"github.com/openemulator/syncore/test"
)

func TestLaunch(t *testing.T) {
	if statsview.Available() {
		t.Skip("statsview server is built in")
	}

	// without the build constraint nothing is written
	var b bytes.Buffer
	stop, err := statsview.Launch(&b, "")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b.Len(), 0)
	stop()
}
