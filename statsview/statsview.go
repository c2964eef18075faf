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

//go:build statsview

package statsview

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// how long to wait for the server to fail before assuming it is running
const startupWait = 100 * time.Millisecond

// Launch the stats server at the address, or at Address if addr is empty.
// The returned function stops the server.
func Launch(output io.Writer, addr string) (func(), error) {
	if addr == "" {
		addr = Address
	}

	viewer.SetConfiguration(
		viewer.WithAddr(addr),
		viewer.WithInterval(Interval),
		viewer.WithMaxPoints(MaxPoints),
	)
	mgr := statsview.New()

	failed := make(chan error, 1)
	go func() {
		err := mgr.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return func() {}, fmt.Errorf("statsview: %w", err)
	case <-time.After(startupWait):
	}

	fmt.Fprintf(output, "stats server available at %s%s\n", addr, url)

	return mgr.Stop, nil
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
