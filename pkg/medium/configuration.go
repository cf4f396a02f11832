package medium

import (
	"fmt"
	"io"

	"github.com/OffBroadway/diskio/pkg/configuration"
	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/spf13/afero"
)

// NewMediumFromConfiguration creates the medium of a drive based on
// parameters provided in a configuration file. The medium reports
// Prometheus metrics under the drive's name. The returned Closer, if
// any, releases the resources of the medium.
func NewMediumFromConfiguration(fs afero.Fs, drive *configuration.DriveConfiguration, readOnly bool) (diskio.Medium, io.Closer, error) {
	switch {
	case drive.Image != nil:
		img := NewImageFile(fs, drive.Image.Path, drive.SectorSizeBytes, drive.Image.SizeBytes, readOnly)
		return diskio.NewMetricsMedium(img, drive.Name), img, nil
	case drive.Memory != nil:
		sectorSize := drive.SectorSizeBytes
		if sectorSize == 0 {
			sectorSize = DefaultSectorSize
		}
		m := NewMemory(sectorSize, uint64(drive.Memory.SizeBytes)/uint64(sectorSize))
		return diskio.NewMetricsMedium(m, drive.Name), nil, nil
	default:
		return nil, nil, fmt.Errorf("drive %s: configuration did not contain a supported medium", drive.Name)
	}
}

// NewDevicesFromConfiguration creates the media of all configured
// drives, keyed by drive number, together with the Closers of those
// that hold resources.
func NewDevicesFromConfiguration(fs afero.Fs, drives []configuration.DriveConfiguration, readOnly bool) (map[diskio.Drive]diskio.Medium, []io.Closer, error) {
	devices := make(map[diskio.Drive]diskio.Medium, len(drives))
	var closers []io.Closer
	for i := range drives {
		m, closer, err := NewMediumFromConfiguration(fs, &drives[i], readOnly)
		if err != nil {
			return nil, nil, err
		}
		devices[diskio.Drive(drives[i].Drive)] = m
		if closer != nil {
			closers = append(closers, closer)
		}
	}
	return devices, closers, nil
}
