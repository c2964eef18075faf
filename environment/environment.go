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

package environment

import (
	"github.com/openemulator/syncore/prefs"
)

// Label is used to name the environment.
type Label string

// MainLabel is the label of the environment of the first window opened by the
// application.
const MainLabel Label = ""

// Environment is used to provide context for a window and the components it
// joins together. Particularly useful when more than one emulation is open
// at the same time because the label is used to tag log entries.
type Environment struct {
	Label Label

	// whether components running in this environment are allowed to add
	// entries to the central log
	Logging prefs.Bool
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. Logging is enabled.
func NewEnvironment(label Label) *Environment {
	env := &Environment{
		Label: label,
	}
	env.Logging.Set(true)
	return env
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Logging.Get().(bool)
}

// IsMain returns true if the environment is the main environment.
func (env *Environment) IsMain() bool {
	return env.Label == MainLabel
}

// Tag returns a log tag prefixed with the environment label. The main
// environment does not prefix the tag.
func (env *Environment) Tag(tag string) string {
	if env.IsMain() {
		return tag
	}
	return string(env.Label) + "/" + tag
}
