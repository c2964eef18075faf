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

package stream

import (
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/filetypes"
)

// decoded audio.
type pcm struct {
	sampleRate int
	channels   int

	// interleaved samples in the range -1.0 to 1.0
	data []float32
}

// the number of frames in the pcm data.
func (p *pcm) frames() int64 {
	if p.channels == 0 {
		return 0
	}
	return int64(len(p.data) / p.channels)
}

// decode the entire file. the file is closed before the function returns.
func decode(path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filetypes.Ext(path) {
	case ".wav":
		return decodeWav(f)
	case ".mp3":
		return decodeMP3(f)
	}

	return nil, curated.Errorf("no decoder for %s", filetypes.Ext(path))
}

func decodeWav(r io.ReadSeeker) (*pcm, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, curated.Errorf("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, curated.Errorf("wav: %v", err)
	}

	p := &pcm{
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		data:       make([]float32, len(buf.Data)),
	}
	if p.channels == 0 || p.sampleRate == 0 {
		return nil, curated.Errorf("wav: bad format")
	}

	// samples are normalised according to the bit depth of the file
	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := float32(int64(1) << (depth - 1))

	// 8 bit wav data is unsigned
	offset := 0
	if depth == 8 {
		offset = 128
	}

	for i, v := range buf.Data {
		p.data[i] = float32(v-offset) / scale
	}

	return p, nil
}

func decodeMP3(r io.Reader) (*pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, curated.Errorf("mp3: %v", err)
	}

	// the decoded stream is always 16bit little endian with two channels
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, curated.Errorf("mp3: %v", err)
	}
	raw = raw[:len(raw)&^3]

	p := &pcm{
		sampleRate: dec.SampleRate(),
		channels:   2,
		data:       make([]float32, len(raw)/2),
	}
	for i := range p.data {
		v := int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8)
		p.data[i] = float32(v) / 32768
	}

	return p, nil
}
