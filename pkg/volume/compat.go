package volume

import (
	"context"
	"io/fs"
	"os"

	"golang.org/x/net/webdav"
)

// FS is an io/fs view of a Volume.
type FS struct {
	*Volume
}

var _ fs.FS = (*FS)(nil)

func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return f.Volume.Open("/" + name)
}

func AsIO(v *Volume) *FS {
	return &FS{v}
}

// WebDAV is a webdav.FileSystem view of a Volume. The contexts of
// WebDAV requests are not used, as adapter calls cannot be cancelled.
type WebDAV struct {
	*Volume
}

var _ webdav.FileSystem = (*WebDAV)(nil)

func (w *WebDAV) Mkdir(ctx context.Context, name string, perm os.FileMode) error {
	return w.Volume.Mkdir(name, perm)
}

func (w *WebDAV) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	return w.Volume.OpenFile(name, flag, perm)
}

func (w *WebDAV) RemoveAll(ctx context.Context, name string) error {
	return w.Volume.RemoveAll(name)
}

func (w *WebDAV) Rename(ctx context.Context, oldName, newName string) error {
	return w.Volume.Rename(oldName, newName)
}

func (w *WebDAV) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	return w.Volume.Stat(name)
}

func AsWebDAV(v *Volume) *WebDAV {
	return &WebDAV{v}
}
