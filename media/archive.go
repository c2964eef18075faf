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

package media

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
	"github.com/openemulator/syncore/curated"
	"github.com/openemulator/syncore/filetypes"
)

// MaxUnpackedSize is the largest image that will be unpacked from an archive.
const MaxUnpackedSize = 64 * 1024 * 1024

// NoImageInArchive is returned when an archive holds nothing that looks like
// a disk image.
const NoImageInArchive = "media: no disk image in archive"

// unpack the first disk image in the archive to a file in dir. returns the
// name of the new file.
func unpack(path string, types *filetypes.Registry, dir string) (string, error) {
	var data []byte
	var name string
	var err error

	switch filetypes.Ext(path) {
	case ".zip":
		data, name, err = unpackZip(path, types)
	case ".7z":
		data, name, err = unpack7z(path, types)
	case ".rar":
		data, name, err = unpackRar(path, types)
	case ".gz":
		data, name, err = unpackGzip(path, types)
	default:
		return "", curated.Errorf("media: not an archive: %v", path)
	}
	if err != nil {
		return "", err
	}

	// the cache file keeps the extension of the image. emulations may use
	// the extension to decide on the image format
	f, err := os.CreateTemp(dir, fmt.Sprintf("syncore_*%s", filepath.Ext(name)))
	if err != nil {
		return "", curated.Errorf("media: cache: %v", err)
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Close()
	} else {
		_ = f.Close()
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", curated.Errorf("media: cache: %v", err)
	}

	return f.Name(), nil
}

// read from r no more than MaxUnpackedSize bytes.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUnpackedSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUnpackedSize {
		return nil, curated.Errorf("media: image larger than %d bytes", MaxUnpackedSize)
	}
	return data, nil
}

func isImage(name string, types *filetypes.Registry) bool {
	return !strings.HasSuffix(name, "/") && types.IsDiskImage(name)
}

func unpackZip(path string, types *filetypes.Registry) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", curated.Errorf("media: zip: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isImage(f.Name, types) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", curated.Errorf("media: zip: %v", err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", curated.Errorf("media: zip: %s: %v", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", curated.Errorf(NoImageInArchive)
}

func unpack7z(path string, types *filetypes.Registry) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", curated.Errorf("media: 7z: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !isImage(f.Name, types) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", curated.Errorf("media: 7z: %v", err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", curated.Errorf("media: 7z: %s: %v", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", curated.Errorf(NoImageInArchive)
}

func unpackRar(path string, types *filetypes.Registry) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", curated.Errorf("media: rar: %v", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", curated.Errorf("media: rar: %v", err)
		}
		if hdr.IsDir || !isImage(hdr.Name, types) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", curated.Errorf("media: rar: %s: %v", hdr.Name, err)
		}
		return data, filepath.Base(hdr.Name), nil
	}

	return nil, "", curated.Errorf(NoImageInArchive)
}

// a gzip file is either a tarball or a single compressed image. in the second
// case the image name is the archive name without the .gz extension.
func unpackGzip(path string, types *filetypes.Registry) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", curated.Errorf("media: gzip: %v", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", curated.Errorf("media: gzip: %v", err)
	}
	defer gr.Close()

	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]

	if strings.EqualFold(filepath.Ext(name), ".tar") {
		return unpackTar(gr, types)
	}

	if !types.IsDiskImage(name) {
		return nil, "", curated.Errorf(NoImageInArchive)
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", curated.Errorf("media: gzip: %v", err)
	}
	return data, name, nil
}

func unpackTar(r io.Reader, types *filetypes.Registry) ([]byte, string, error) {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", curated.Errorf("media: tar: %v", err)
		}
		if hdr.Typeflag != tar.TypeReg || !isImage(hdr.Name, types) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", curated.Errorf("media: tar: %s: %v", hdr.Name, err)
		}
		return data, filepath.Base(hdr.Name), nil
	}

	return nil, "", curated.Errorf(NoImageInArchive)
}
