// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"io/fs"
	"sync"
)

// FileReader is an io.Reader over the contents of a file in a [fs.FS].
// The file is read in full on the first call to Read.
type FileReader struct {
	fsys fs.FS
	path string

	loadOnce sync.Once
	contents *bytes.Reader
	loadErr  error
}

// NewFileReader returns a FileReader for path within fsys.
func NewFileReader(fsys fs.FS, path string) *FileReader {
	return &FileReader{
		fsys: fsys,
		path: path,
	}
}

// Name returns the path of the file within its [fs.FS]. It
// is included in the [DecodeError] returned by a [Document].
func (r *FileReader) Name() string {
	return r.path
}

// Read implements the io.Reader interface.
func (r *FileReader) Read(b []byte) (int, error) {
	r.loadOnce.Do(func() {
		var data []byte
		data, r.loadErr = fs.ReadFile(r.fsys, r.path)
		r.contents = bytes.NewReader(data)
	})
	if r.loadErr != nil {
		return 0, r.loadErr
	}
	return r.contents.Read(b)
}
