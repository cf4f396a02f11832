// Package volume exports the drives of a diskio.Adapter as raw image
// files through afero.Fs. Every exported drive shows up as
// "/<name>.img" in a flat root directory. The image has the fixed size
// of the drive and its bytes are the drive's sectors; there is no file
// system format involved.
package volume

import (
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/OffBroadway/diskio/pkg/diskio"
	log "github.com/fclairamb/go-log"
	"github.com/fclairamb/go-log/noop"
	"github.com/spf13/afero"
)

// ImageExtension is appended to the name of every exported drive.
const ImageExtension = ".img"

// Volume is an afero.Fs on top of an Adapter. Calls into the adapter
// are serialized, so a Volume may be shared by concurrent clients.
type Volume struct {
	mu      sync.Mutex
	adapter *diskio.Adapter
	exports map[string]diskio.Drive
	names   []string
	logger  log.Logger
}

var _ afero.Fs = (*Volume)(nil)

// New creates a Volume exporting drives under the given names. The
// names must not contain slashes. A nil logger discards messages.
func New(adapter *diskio.Adapter, exports map[string]diskio.Drive, logger log.Logger) *Volume {
	if logger == nil {
		logger = noop.NewNoOpLogger()
	}
	v := &Volume{
		adapter: adapter,
		exports: make(map[string]diskio.Drive, len(exports)),
		logger:  logger,
	}
	for name, pdrv := range exports {
		fileName := name + ImageExtension
		v.exports[fileName] = pdrv
		v.names = append(v.names, fileName)
	}
	sort.Strings(v.names)
	return v
}

func (v *Volume) Name() string {
	return "diskio"
}

// lookup resolves a path. It returns isRoot for the root directory and
// ok for an exported image.
func (v *Volume) lookup(name string) (fileName string, pdrv diskio.Drive, isRoot, ok bool) {
	p := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if p == "/" {
		return "/", 0, true, true
	}
	fileName = strings.TrimPrefix(p, "/")
	pdrv, ok = v.exports[fileName]
	return fileName, pdrv, false, ok
}

// mountLocked initializes the drive if needed, like a file system
// driver does when mounting a volume.
func (v *Volume) mountLocked(pdrv diskio.Drive) error {
	switch status := v.adapter.Initialize(pdrv); status {
	case diskio.StatusReady:
		return nil
	case diskio.StatusInvalidDrive:
		return diskio.ResultInvalidDrive
	default:
		v.logger.Warn("Drive not ready", "drive", pdrv, "status", status)
		return diskio.ResultNotReady
	}
}

// geometryLocked returns the sector size and the size of the drive in
// bytes.
func (v *Volume) geometryLocked(pdrv diskio.Drive) (int64, int64, error) {
	var sectorSize, sectorCount uint64
	if err := v.adapter.Control(pdrv, diskio.CommandGetSectorSize, &sectorSize); err != nil {
		return 0, 0, err
	}
	if err := v.adapter.Control(pdrv, diskio.CommandGetSectorCount, &sectorCount); err != nil {
		return 0, 0, err
	}
	if sectorSize == 0 {
		v.logger.Error("Medium reports a sector size of zero", "drive", pdrv)
		return 0, 0, diskio.ResultInvalidParameter
	}
	return int64(sectorSize), int64(sectorSize * sectorCount), nil
}

func (v *Volume) modTime() time.Time {
	return v.adapter.Timestamp().Time()
}

func (v *Volume) imageMode() os.FileMode {
	if v.adapter.ReadOnly() {
		return 0o444
	}
	return 0o666
}

func (v *Volume) rootInfo() *FileInfo {
	return &FileInfo{
		name:    ".",
		isDir:   true,
		modTime: v.modTime(),
		mode:    os.ModeDir | 0o755,
	}
}

// statLocked mounts the drive and describes its image.
func (v *Volume) statLocked(fileName string, pdrv diskio.Drive) (*FileInfo, error) {
	if err := v.mountLocked(pdrv); err != nil {
		return nil, err
	}
	_, size, err := v.geometryLocked(pdrv)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		name:    fileName,
		size:    size,
		modTime: v.modTime(),
		mode:    v.imageMode(),
		sys:     pdrv,
	}, nil
}

func (v *Volume) Stat(name string) (os.FileInfo, error) {
	fileName, pdrv, isRoot, ok := v.lookup(name)
	if isRoot {
		return v.rootInfo(), nil
	}
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	info, err := v.statLocked(fileName, pdrv)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return info, nil
}

// readDir describes all exported images. Drives that cannot be mounted
// are listed with a size of zero.
func (v *Volume) readDir() []os.FileInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	infos := make([]os.FileInfo, 0, len(v.names))
	for _, fileName := range v.names {
		pdrv := v.exports[fileName]
		info, err := v.statLocked(fileName, pdrv)
		if err != nil {
			v.logger.Warn("Listing unavailable drive", "drive", pdrv, "err", err)
			info = &FileInfo{
				name:    fileName,
				modTime: v.modTime(),
				mode:    v.imageMode(),
				sys:     pdrv,
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func (v *Volume) Open(name string) (afero.File, error) {
	return v.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens the root directory or an image. Images cannot be
// created, removed or resized, so O_CREATE only succeeds for existing
// images, O_APPEND is rejected and O_TRUNC is ignored.
func (v *Volume) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	v.logger.Debug("Opening file", "name", name, "flag", flag, "perm", perm)
	writable := flag&(os.O_WRONLY|os.O_RDWR) != 0

	fileName, pdrv, isRoot, ok := v.lookup(name)
	if isRoot {
		if writable {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
		}
		return &File{volume: v, name: "/", isDir: true}, nil
	}
	if !ok {
		if flag&os.O_CREATE != 0 {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
		}
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	if flag&(os.O_CREATE|os.O_EXCL) == os.O_CREATE|os.O_EXCL {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrExist}
	}
	if writable && v.adapter.ReadOnly() {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	// Appending would grow the image.
	if flag&os.O_APPEND != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}

	v.mu.Lock()
	err := v.mountLocked(pdrv)
	v.mu.Unlock()
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	return &File{
		volume:   v,
		name:     fileName,
		drive:    pdrv,
		readable: flag&os.O_WRONLY == 0,
		writable: writable,
	}, nil
}

func (v *Volume) Create(name string) (afero.File, error) {
	return v.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

func (v *Volume) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: os.ErrPermission}
}

func (v *Volume) MkdirAll(p string, perm os.FileMode) error {
	if _, _, isRoot, _ := v.lookup(p); isRoot {
		return nil
	}
	return &os.PathError{Op: "mkdir", Path: p, Err: os.ErrPermission}
}

func (v *Volume) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: os.ErrPermission}
}

func (v *Volume) RemoveAll(p string) error {
	return &os.PathError{Op: "removeall", Path: p, Err: os.ErrPermission}
}

func (v *Volume) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
}

func (v *Volume) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: os.ErrPermission}
}

func (v *Volume) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: os.ErrPermission}
}

func (v *Volume) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: os.ErrPermission}
}
