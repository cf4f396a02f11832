package volume

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/spf13/afero"
)

// maxTransferSectors bounds the number of sectors moved by a single
// adapter call, and thereby the size of the bounce buffer.
const maxTransferSectors = 128

// FileInfo describes the root directory or an image.
type FileInfo struct {
	name    string
	size    int64
	isDir   bool
	modTime time.Time
	mode    os.FileMode
	sys     interface{}
}

func (fi FileInfo) Name() string       { return fi.name }
func (fi FileInfo) Size() int64        { return fi.size }
func (fi FileInfo) IsDir() bool        { return fi.isDir }
func (fi FileInfo) ModTime() time.Time { return fi.modTime }
func (fi FileInfo) Mode() os.FileMode  { return fi.mode }
func (fi FileInfo) Sys() interface{}   { return fi.sys }

var _ os.FileInfo = FileInfo{}

// File is an open image or the root directory.
type File struct {
	volume   *Volume
	name     string
	drive    diskio.Drive
	isDir    bool
	readable bool
	writable bool
	closed   bool

	offset    int64
	dirOffset int
	dirInfos  []os.FileInfo
}

var (
	_ afero.File     = (*File)(nil)
	_ fs.ReadDirFile = (*File)(nil)
)

// Name returns the name of the file as presented to OpenFile
func (f *File) Name() string {
	return f.name
}

func (f *File) pathError(op string, err error) error {
	return &os.PathError{Op: op, Path: f.name, Err: err}
}

// check verifies that the file is an open image supporting op.
func (f *File) check(op string, allowed bool) error {
	if f.closed {
		return f.pathError(op, os.ErrClosed)
	}
	if f.isDir {
		return f.pathError(op, os.ErrInvalid)
	}
	if !allowed {
		return f.pathError(op, os.ErrPermission)
	}
	return nil
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, f.pathError("stat", os.ErrClosed)
	}
	if f.isDir {
		return f.volume.rootInfo(), nil
	}
	v := f.volume
	v.mu.Lock()
	defer v.mu.Unlock()
	info, err := v.statLocked(f.name, f.drive)
	if err != nil {
		return nil, f.pathError("stat", err)
	}
	return info, nil
}

// ReadAt reads len(p) bytes of the image starting at off. Partial
// sectors at either end are read in full and trimmed.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if err := f.check("read", f.readable); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, f.pathError("read", os.ErrInvalid)
	}

	v := f.volume
	v.mu.Lock()
	defer v.mu.Unlock()
	sectorSize, size, err := v.geometryLocked(f.drive)
	if err != nil {
		return 0, f.pathError("read", err)
	}
	if off >= size {
		return 0, io.EOF
	}
	end := off + int64(len(p))
	if end > size {
		end = size
	}

	var buf []byte
	n := 0
	for pos := off; pos < end; {
		first := pos / sectorSize
		chunkEnd := min(end, (first+maxTransferSectors)*sectorSize)
		count := (chunkEnd+sectorSize-1)/sectorSize - first
		if need := int(count * sectorSize); len(buf) < need {
			buf = make([]byte, need)
		}
		if err := v.adapter.Read(f.drive, buf, uint64(first), uint32(count)); err != nil {
			return n, f.pathError("read", err)
		}
		n += copy(p[pos-off:chunkEnd-off], buf[pos-first*sectorSize:])
		pos = chunkEnd
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p to the image starting at off. Sectors that are only
// partially covered by p are read first and written back merged. Data
// beyond the end of the image is dropped and reported as
// io.ErrShortWrite.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if err := f.check("write", f.writable); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, f.pathError("write", os.ErrInvalid)
	}

	v := f.volume
	v.mu.Lock()
	defer v.mu.Unlock()
	sectorSize, size, err := v.geometryLocked(f.drive)
	if err != nil {
		return 0, f.pathError("write", err)
	}
	end := off + int64(len(p))
	if end > size {
		end = size
	}

	var buf []byte
	n := 0
	for pos := off; pos < end; {
		first := pos / sectorSize
		chunkEnd := min(end, (first+maxTransferSectors)*sectorSize)
		count := (chunkEnd+sectorSize-1)/sectorSize - first
		length := int(count * sectorSize)
		if len(buf) < length {
			buf = make([]byte, length)
		}
		if pos%sectorSize != 0 || chunkEnd%sectorSize != 0 {
			if err := v.adapter.Read(f.drive, buf, uint64(first), uint32(count)); err != nil {
				return n, f.pathError("write", err)
			}
		}
		copy(buf[pos-first*sectorSize:], p[pos-off:chunkEnd-off])
		if err := v.adapter.Write(f.drive, buf[:length], uint64(first), uint32(count)); err != nil {
			return n, f.pathError("write", err)
		}
		n += int(chunkEnd - pos)
		pos = chunkEnd
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (f *File) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Seek changes the position of the file
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.check("seek", true); err != nil {
		return 0, err
	}
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += f.offset
	case io.SeekEnd:
		info, err := f.Stat()
		if err != nil {
			return 0, err
		}
		offset += info.Size()
	default:
		return 0, f.pathError("seek", os.ErrInvalid)
	}
	if offset < 0 {
		return 0, f.pathError("seek", os.ErrInvalid)
	}
	f.offset = offset
	return offset, nil
}

// Sync asks the drive to complete pending writes.
func (f *File) Sync() error {
	if err := f.check("sync", true); err != nil {
		return err
	}
	v := f.volume
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.adapter.Control(f.drive, diskio.CommandSync, nil); err != nil {
		return f.pathError("sync", err)
	}
	return nil
}

// Truncate only accepts the current size, as images cannot be resized.
func (f *File) Truncate(size int64) error {
	if err := f.check("truncate", f.writable); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if size != info.Size() {
		return f.pathError("truncate", os.ErrPermission)
	}
	return nil
}

// Readdir lists the exported images. With count > 0 at most count
// entries are returned per call, and io.EOF once all were returned.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.closed {
		return nil, f.pathError("readdir", os.ErrClosed)
	}
	if !f.isDir {
		return nil, f.pathError("readdir", os.ErrInvalid)
	}
	if f.dirInfos == nil {
		f.dirInfos = f.volume.readDir()
	}

	remaining := f.dirInfos[f.dirOffset:]
	if count <= 0 {
		f.dirOffset = len(f.dirInfos)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if len(remaining) > count {
		remaining = remaining[:count]
	}
	f.dirOffset += len(remaining)
	return remaining, nil
}

func (f *File) Readdirnames(n int) (names []string, err error) {
	infos, err := f.Readdir(n)
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, err
}

// ReadDir is the io/fs counterpart of Readdir.
func (f *File) ReadDir(n int) ([]fs.DirEntry, error) {
	infos, err := f.Readdir(n)
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, err
}

// Close the file
func (f *File) Close() error {
	if f.closed {
		return f.pathError("close", os.ErrClosed)
	}
	f.closed = true
	return nil
}
