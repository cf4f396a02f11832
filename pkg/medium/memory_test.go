package medium_test

import (
	"bytes"
	"testing"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/OffBroadway/diskio/pkg/medium"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := medium.NewMemory(512, 16)
	require.Equal(t, uint64(16), m.MaxSector())
	require.Equal(t, uint32(512), m.SectorSize())

	buf := make([]byte, 512)
	require.NoError(t, m.ReadBlocks(15, buf, 1))
	require.Equal(t, bytes.Repeat([]byte{0xff}, 512), buf)

	require.NoError(t, m.WriteBlocks(15, bytes.Repeat([]byte{0x5a}, 512), 1))
	require.NoError(t, m.ReadBlocks(15, buf, 1))
	require.Equal(t, bytes.Repeat([]byte{0x5a}, 512), buf)

	require.Error(t, m.ReadBlocks(16, buf, 1))
	require.Error(t, m.WriteBlocks(15, buf, 2))
}

func TestMemoryBehindAdapter(t *testing.T) {
	// A card that is only seated after two attempts.
	m := medium.NewMemory(512, 8)
	m.FailInit(2)
	adapter := diskio.NewAdapter(map[diskio.Drive]diskio.Medium{diskio.DriveSD: m})

	require.Equal(t, diskio.StatusNotReady, adapter.Initialize(diskio.DriveSD))
	require.Equal(t, diskio.StatusNotReady, adapter.Initialize(diskio.DriveSD))
	require.Equal(t, diskio.StatusReady, adapter.Initialize(diskio.DriveSD))

	var sectorCount uint64
	require.NoError(t, adapter.Control(diskio.DriveSD, diskio.CommandGetSectorCount, &sectorCount))
	require.Equal(t, uint64(8), sectorCount)

	written := bytes.Repeat([]byte("TEST.TXT"), 2*512/8)
	require.NoError(t, adapter.Write(diskio.DriveSD, written, 6, 2))
	read := make([]byte, 2*512)
	require.NoError(t, adapter.Read(diskio.DriveSD, read, 6, 2))
	require.Equal(t, written, read)

	// Transfers beyond the end of the medium are hard errors.
	require.Equal(t, diskio.ResultIOError, adapter.Read(diskio.DriveSD, read, 7, 2))
}
