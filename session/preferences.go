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

package session

import (
	"fmt"
	"time"

	"github.com/openemulator/syncore/filetypes"
	"github.com/openemulator/syncore/frameclock"
	"github.com/openemulator/syncore/paths"
	"github.com/openemulator/syncore/prefs"
	"github.com/openemulator/syncore/stream"
	"github.com/openemulator/syncore/userinput"
)

// Preferences for the windows opened by the application.
type Preferences struct {
	dsk *prefs.Disk

	// refresh rate to use instead of the rate of the host display. zero
	// means use the host display
	RefreshOverride prefs.Float
	MaxSkip         prefs.Int

	// in milliseconds
	PasteInterval    prefs.Int
	LEDResyncTimeout prefs.Int

	// comma separated extension lists
	DiskImages prefs.String
	Audio      prefs.String

	RecordRate     prefs.Int
	RecordChannels prefs.Int

	Letterbox prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

const (
	refreshOverride  = 0.0
	maxSkip          = frameclock.DefaultMaxSkip
	pasteInterval    = int(userinput.DefaultPasteInterval / time.Millisecond)
	ledResyncTimeout = 0
	recordRate       = 48000
	recordChannels   = stream.DefaultRecordingChannels
	letterbox        = true
)

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file in
// the resource directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is the same as NewPreferences() but with an
// explicit preferences file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("frameclock.refreshOverride", &p.RefreshOverride)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("frameclock.maxSkip", &p.MaxSkip)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("input.pasteInterval", &p.PasteInterval)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("input.ledResyncTimeout", &p.LEDResyncTimeout)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("filetypes.diskImages", &p.DiskImages)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("filetypes.audio", &p.Audio)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("stream.recordRate", &p.RecordRate)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("stream.recordChannels", &p.RecordChannels)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("canvas.letterbox", &p.Letterbox)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.RefreshOverride.Set(refreshOverride)
	p.MaxSkip.Set(maxSkip)
	p.PasteInterval.Set(pasteInterval)
	p.LEDResyncTimeout.Set(ledResyncTimeout)
	p.DiskImages.Set(filetypes.JoinList(filetypes.DefaultDiskImages))
	p.Audio.Set(filetypes.JoinList(filetypes.DefaultAudio))
	p.RecordRate.Set(recordRate)
	p.RecordChannels.Set(recordChannels)
	p.Letterbox.Set(letterbox)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// FileTypes returns a filetypes.Registry for the current extension lists.
func (p *Preferences) FileTypes() *filetypes.Registry {
	return filetypes.FromPrefs(p.DiskImages.String(), p.Audio.String())
}

// validate values that can not be checked by the prefs types themselves.
func (p *Preferences) validate() error {
	if v := p.MaxSkip.Get().(int); v < 0 {
		return fmt.Errorf("session: frameclock.maxSkip must not be negative (%d)", v)
	}
	if v := p.PasteInterval.Get().(int); v < 0 {
		return fmt.Errorf("session: input.pasteInterval must not be negative (%d)", v)
	}
	if v := p.RecordRate.Get().(int); v <= 0 {
		return fmt.Errorf("session: stream.recordRate must be positive (%d)", v)
	}
	if v := p.RecordChannels.Get().(int); v <= 0 {
		return fmt.Errorf("session: stream.recordChannels must be positive (%d)", v)
	}
	return nil
}
