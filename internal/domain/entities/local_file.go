package entities

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalFile is a handle to the user's photo. Its bytes are only read when a
// try-on starts, so a handle that went stale surfaces as a read failure then.
type LocalFile interface {
	Name() string
	MimeType() string
	Open() (io.ReadCloser, error)
}

// UploadedFile holds a photo received through the local UI.
type UploadedFile struct {
	name     string
	mimeType string
	data     []byte
}

func NewUploadedFile(name, mimeType string, data []byte) *UploadedFile {
	return &UploadedFile{
		name:     name,
		mimeType: mimeType,
		data:     data,
	}
}

func (f *UploadedFile) Name() string {
	return f.name
}

func (f *UploadedFile) MimeType() string {
	return f.mimeType
}

func (f *UploadedFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// DiskFile is a photo on the local filesystem.
type DiskFile struct {
	path string
}

func NewDiskFile(path string) *DiskFile {
	return &DiskFile{path: path}
}

func (f *DiskFile) Name() string {
	return filepath.Base(f.path)
}

// MimeType is derived from the file extension and may be empty.
func (f *DiskFile) MimeType() string {
	return mime.TypeByExtension(filepath.Ext(f.path))
}

func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
