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

package userinput

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openemulator/syncore/emulation"
	"github.com/openemulator/syncore/logger"
)

// DefaultPasteInterval is the time between pasted characters.
const DefaultPasteInterval = 25 * time.Millisecond

type paster struct {
	crit sync.Mutex

	queue   []pasteKey
	running bool
	cancel  chan struct{}
	done    chan struct{}

	// time.Duration
	interval atomic.Int64
}

// SetPasteInterval sets the time between pasted characters.
func (r *Router) SetPasteInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.paste.interval.Store(int64(d))
}

// Paste types the text into the emulation. Characters are sent at the paste
// interval on a separate goroutine. If a paste is already in progress the
// text is added to the end of it. Characters that cannot be typed are
// ignored.
func (r *Router) Paste(text string) {
	keys, dropped := decompose(text)
	if dropped > 0 {
		logger.Logf(r.perm, "input", "paste: %d characters cannot be typed", dropped)
	}
	if len(keys) == 0 {
		return
	}

	r.paste.crit.Lock()
	defer r.paste.crit.Unlock()

	r.paste.queue = append(r.paste.queue, keys...)
	if !r.paste.running {
		r.paste.running = true
		r.paste.cancel = make(chan struct{})
		r.paste.done = make(chan struct{})
		go r.pasteLoop(r.paste.cancel, r.paste.done)
	}
}

// WaitPaste blocks until the paste in progress has completed or the context
// is done.
func (r *Router) WaitPaste(ctx context.Context) error {
	r.paste.crit.Lock()
	if !r.paste.running {
		r.paste.crit.Unlock()
		return nil
	}
	done := r.paste.done
	r.paste.crit.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsPasting returns true if a paste is in progress.
func (r *Router) IsPasting() bool {
	r.paste.crit.Lock()
	defer r.paste.crit.Unlock()
	return r.paste.running
}

// CancelPaste discards the remaining characters of a paste in progress. It
// returns once the paste goroutine has finished.
func (r *Router) CancelPaste() {
	r.paste.crit.Lock()
	if !r.paste.running {
		r.paste.crit.Unlock()
		return
	}
	r.paste.running = false
	r.paste.queue = nil
	close(r.paste.cancel)
	done := r.paste.done
	r.paste.crit.Unlock()

	<-done
}

func (r *Router) pasteLoop(cancel chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		r.paste.crit.Lock()
		select {
		case <-cancel:
			r.paste.crit.Unlock()
			return
		default:
		}
		if len(r.paste.queue) == 0 {
			r.paste.running = false
			r.paste.queue = nil
			r.paste.crit.Unlock()
			return
		}
		k := r.paste.queue[0]
		r.paste.queue = r.paste.queue[1:]
		r.paste.crit.Unlock()

		if err := r.typeKey(k); err != nil {
			logger.Logf(r.perm, "input", "paste: %v", err)
		}

		select {
		case <-cancel:
			return
		case <-time.After(time.Duration(r.paste.interval.Load())):
		}
	}
}

// send the events for a single pasted character. shift is only pressed if it
// is not already held by the user. with caps lock on the shift state of
// letters is inverted so that the character arrives in the intended case.
func (r *Router) typeKey(k pasteKey) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	shift := k.shift
	if k.key >= emulation.KeyA && k.key <= emulation.KeyZ && r.hostLEDs&emulation.LEDCapsLock != 0 {
		shift = !shift
	}
	if r.pressed[emulation.KeyLeftShift] || r.pressed[emulation.KeyRightShift] {
		shift = false
	}

	events := make([]emulation.InputEvent, 0, 4)
	if shift {
		events = append(events, emulation.InputEvent{Kind: emulation.KeyDown, Key: emulation.KeyLeftShift})
	}
	events = append(events,
		emulation.InputEvent{Kind: emulation.KeyDown, Key: k.key},
		emulation.InputEvent{Kind: emulation.KeyUp, Key: k.key},
	)
	if shift {
		events = append(events, emulation.InputEvent{Kind: emulation.KeyUp, Key: emulation.KeyLeftShift})
	}

	for _, ev := range events {
		if err := r.submit(ev); err != nil {
			return err
		}
	}
	return nil
}
