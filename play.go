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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/openemulator/syncore/easyterm"
	"github.com/openemulator/syncore/gui/sdlaudio"
	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/modalflag"
	"github.com/openemulator/syncore/notifications"
	"github.com/openemulator/syncore/session"
	"github.com/openemulator/syncore/stream"
)

// amount of time skipped by the cursor keys in PLAY mode
const seekStep = 5 * time.Second

// how often the status line is redrawn
const statusInterval = 100 * time.Millisecond

func play(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	md.AdditionalHelp("Keys: space to pause and resume, left and right to seek, home to restart, q to quit")

	common := addCommonFlags(md)
	prefsFile := md.AddString("prefsfile", "", "preferences file to use instead of the default")
	loop := md.AddBool("loop", false, "restart playback when the end of the file is reached")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	common.apply()

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one audio file required for %s mode", md)
	}
	pth := md.GetArg(0)

	var pref *session.Preferences
	if *prefsFile != "" {
		pref, err = session.NewPreferencesFromFile(*prefsFile)
	} else {
		pref, err = session.NewPreferences()
	}
	if err != nil {
		return err
	}

	ended := make(chan struct{}, 1)
	notify := notifications.NotifyFunc(func(notice notifications.Notice) error {
		if notice == notifications.NotifyPlaybackEnded {
			select {
			case ended <- struct{}{}:
			default:
			}
		}
		return nil
	})

	aud := sdlaudio.NewAudio()
	pb := stream.NewPlayback(aud, notify, pref.FileTypes())
	defer pb.Close()

	if err := pb.Open(pth); err != nil {
		return err
	}

	var term easyterm.Terminal
	if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	defer term.CleanUp()
	term.CBreakMode()

	sync.state <- stateRequest{req: reqForwardIntSig}

	done := make(chan struct{})
	defer close(done)
	keys := make(chan easyterm.Key)
	go func() {
		for {
			k, err := term.ReadKey()
			if err != nil {
				logger.Logf(logger.Allow, "play", "%v", err)
				return
			}
			select {
			case keys <- k:
			case <-done:
				return
			}
		}
	}()

	if err := pb.Play(); err != nil {
		return err
	}

	st := newStyles()
	name := filepath.Base(pth)

	tck := time.NewTicker(statusInterval)
	defer tck.Stop()

	draw := func() {
		w := int(term.Geometry().Cols)
		term.Print("\r%s", fitLine(statusLine(st, name, pb.State(), pb.Position(), pb.Total()), w))
	}
	defer term.Print("\n")

	for {
		select {
		case <-sync.interrupt:
			return nil

		case <-ended:
			if !*loop {
				draw()
				return nil
			}
			if err := pb.Play(); err != nil {
				return err
			}

		case k := <-keys:
			quit, err := playKey(pb, k)
			if err != nil {
				term.Print("\r%s\n", st.err.Render(err.Error()))
			}
			if quit {
				return nil
			}

		case <-tck.C:
			draw()
		}
	}
}

// playKey handles a single key press. Returns true if the user has asked to
// quit.
func playKey(pb *stream.Playback, k easyterm.Key) (bool, error) {
	switch k.Kind {
	case easyterm.KindCtrlC, easyterm.KindEsc:
		return true, nil

	case easyterm.KindRune:
		switch k.Rune {
		case 'q', 'Q':
			return true, nil
		case ' ':
			switch pb.State() {
			case stream.Active:
				return false, pb.Pause()
			case stream.Paused:
				return false, pb.Resume()
			default:
				return false, pb.Play()
			}
		}

	case easyterm.KindLeft:
		if pb.State() != stream.Idle {
			return false, pb.Seek(pb.Position() - seekStep)
		}

	case easyterm.KindRight:
		if pb.State() != stream.Idle {
			return false, pb.Seek(pb.Position() + seekStep)
		}

	case easyterm.KindHome:
		if pb.State() != stream.Idle {
			return false, pb.Seek(0)
		}
	}

	return false, nil
}

// formatDuration as minutes and seconds.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func statusLine(st styles, name string, state stream.State, position time.Duration, total time.Duration) string {
	return fmt.Sprintf("%s %s %s",
		st.title.Render(name),
		st.state.Render(fmt.Sprintf("%-6s", state)),
		st.position.Render(fmt.Sprintf("%s / %s", formatDuration(position), formatDuration(total))),
	)
}

// fitLine pads the line to the width of the terminal so that a shorter line
// completely overwrites a longer one. A width of zero means the width is
// unknown and the line is returned as is.
func fitLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := width - 1 - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
