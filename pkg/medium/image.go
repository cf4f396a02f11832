package medium

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/spf13/afero"
)

// DefaultSectorSize is the sector size of SD cards and of most disk
// images.
const DefaultSectorSize = 512

// assert that ImageFile implements the Medium interface
var _ diskio.Medium = (*ImageFile)(nil)

// ImageFile is a medium backed by a disk image file.
type ImageFile struct {
	fs         afero.Fs
	path       string
	sectorSize uint32
	sizeBytes  int64
	readOnly   bool

	file        afero.File
	sectorCount uint64
}

// NewImageFile creates a medium for the image at path. Nothing is
// opened until Init is called. If sizeBytes is non-zero, Init creates
// the image when missing and grows it to at least that size.
func NewImageFile(fs afero.Fs, path string, sectorSize uint32, sizeBytes int64, readOnly bool) *ImageFile {
	if sectorSize == 0 {
		sectorSize = DefaultSectorSize
	}
	return &ImageFile{
		fs:         fs,
		path:       path,
		sectorSize: sectorSize,
		sizeBytes:  sizeBytes,
		readOnly:   readOnly,
	}
}

// Init opens the image and determines its capacity.
func (img *ImageFile) Init() error {
	if img.file != nil {
		return nil
	}

	flags := os.O_RDWR
	if img.readOnly {
		flags = os.O_RDONLY
	} else if img.sizeBytes > 0 {
		flags |= os.O_CREATE
	}
	f, err := img.fs.OpenFile(img.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat image: %w", err)
	}
	size := info.Size()
	if !img.readOnly && size < img.sizeBytes {
		if err := f.Truncate(img.sizeBytes); err != nil {
			f.Close()
			return fmt.Errorf("failed to grow image to %d bytes: %w", img.sizeBytes, err)
		}
		size = img.sizeBytes
	}

	sectorCount := uint64(size) / uint64(img.sectorSize)
	if sectorCount == 0 {
		f.Close()
		return fmt.Errorf("image %s holds no complete %d byte sector", img.path, img.sectorSize)
	}

	img.file = f
	img.sectorCount = sectorCount
	return nil
}

// transfer validates a request and returns its byte offset and length.
func (img *ImageFile) transfer(sector uint64, count uint32, buff []byte) (int64, int, error) {
	if img.file == nil {
		return 0, 0, errors.New("image is not open")
	}
	if sector >= img.sectorCount || uint64(count) > img.sectorCount-sector {
		return 0, 0, fmt.Errorf("sectors [%d, %d) out of range for image with %d sectors", sector, sector+uint64(count), img.sectorCount)
	}

	offset := int64(sector * uint64(img.sectorSize))
	length := int(count) * int(img.sectorSize)
	if len(buff) < length {
		return 0, 0, fmt.Errorf("buffer too small: need %d bytes, got %d", length, len(buff))
	}
	return offset, length, nil
}

// ReadBlocks reads count sectors from the image at the sector index
// sector into buff.
func (img *ImageFile) ReadBlocks(sector uint64, buff []byte, count uint32) error {
	offset, length, err := img.transfer(sector, count, buff)
	if err != nil {
		return err
	}

	n, err := img.file.ReadAt(buff[:length], offset)
	if err != nil && !(errors.Is(err, io.EOF) && n == length) {
		return fmt.Errorf("failed to read: %w", err)
	}
	if n != length {
		return fmt.Errorf("short read: expected %d bytes, got %d", length, n)
	}
	return nil
}

// WriteBlocks writes count sectors from buff to the image at the
// sector index sector.
func (img *ImageFile) WriteBlocks(sector uint64, buff []byte, count uint32) error {
	if img.readOnly {
		return fmt.Errorf("image %s is opened read-only", img.path)
	}
	offset, length, err := img.transfer(sector, count, buff)
	if err != nil {
		return err
	}

	n, err := img.file.WriteAt(buff[:length], offset)
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	if n != length {
		return fmt.Errorf("short write: expected %d bytes, wrote %d", length, n)
	}
	return nil
}

// SectorSize returns the sector size of the image.
func (img *ImageFile) SectorSize() uint32 {
	return img.sectorSize
}

// MaxSector returns the number of complete sectors in the image. It is
// zero until Init succeeded.
func (img *ImageFile) MaxSector() uint64 {
	return img.sectorCount
}

// Close releases the image. A later Init opens it again.
func (img *ImageFile) Close() error {
	if img.file == nil {
		return nil
	}
	err := img.file.Close()
	img.file = nil
	img.sectorCount = 0
	return err
}
