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

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	state    lipgloss.Style
	position lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
	result   lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)).Padding(0, 1),
		state:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		position: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		help:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		result:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
	}
}
