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

// Package filetypes lists the file extensions recognised by the application.
// The lists are configuration. They are supplied to the media binder and the
// stream controller, which do not decide for themselves which files they can
// accept.
package filetypes

import (
	"path/filepath"
	"strings"
)

// Default extension lists.
var (
	DefaultDiskImages = []string{".dsk", ".do", ".po", ".nib", ".2mg", ".woz", ".hdv", ".fdi", ".img", ".vdsk"}
	DefaultAudio      = []string{".wav", ".mp3"}
	DefaultArchives   = []string{".zip", ".7z", ".rar", ".gz"}
)

// Registry of recognised file extensions. All extensions are lower case and
// begin with a dot.
type Registry struct {
	DiskImages []string
	Audio      []string
	Archives   []string
}

// Default returns a Registry with the default extension lists.
func Default() *Registry {
	return &Registry{
		DiskImages: append([]string{}, DefaultDiskImages...),
		Audio:      append([]string{}, DefaultAudio...),
		Archives:   append([]string{}, DefaultArchives...),
	}
}

// FromPrefs creates a Registry from comma separated lists, the format used
// in the preferences file. An empty list means the default list.
func FromPrefs(diskImages string, audio string) *Registry {
	reg := Default()
	if l := ParseList(diskImages); len(l) > 0 {
		reg.DiskImages = l
	}
	if l := ParseList(audio); len(l) > 0 {
		reg.Audio = l
	}
	return reg
}

// ParseList splits a comma separated list of extensions. Extensions are
// normalised to lower case with a leading dot.
func ParseList(list string) []string {
	var l []string
	for _, s := range strings.Split(list, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "." {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		l = append(l, s)
	}
	return l
}

// JoinList is the inverse of ParseList.
func JoinList(l []string) string {
	return strings.Join(l, ",")
}

// Ext returns the extension of the file in lower case.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func contains(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}

// IsDiskImage returns true if the path has a disk image extension.
func (reg *Registry) IsDiskImage(path string) bool {
	return contains(reg.DiskImages, Ext(path))
}

// IsAudio returns true if the path has an audio extension.
func (reg *Registry) IsAudio(path string) bool {
	return contains(reg.Audio, Ext(path))
}

// IsArchive returns true if the path has an archive extension.
func (reg *Registry) IsArchive(path string) bool {
	return contains(reg.Archives, Ext(path))
}
