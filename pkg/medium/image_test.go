package medium_test

import (
	"bytes"
	"testing"

	"github.com/OffBroadway/diskio/pkg/medium"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestImageFile(t *testing.T) {
	t.Run("CreateAndGrow", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		img := medium.NewImageFile(fs, "/sd.img", 0, 64*1024, false)
		require.Equal(t, uint64(0), img.MaxSector())

		require.NoError(t, img.Init())
		require.Equal(t, uint32(512), img.SectorSize())
		require.Equal(t, uint64(128), img.MaxSector())

		info, err := fs.Stat("/sd.img")
		require.NoError(t, err)
		require.Equal(t, int64(64*1024), info.Size())

		// A second Init is a no-op.
		require.NoError(t, img.Init())
		require.NoError(t, img.Close())
		require.Equal(t, uint64(0), img.MaxSector())
	})

	t.Run("Missing", func(t *testing.T) {
		img := medium.NewImageFile(afero.NewMemMapFs(), "/missing.img", 512, 0, false)
		require.Error(t, img.Init())
	})

	t.Run("TooSmall", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/tiny.img", make([]byte, 100), 0o644))
		img := medium.NewImageFile(fs, "/tiny.img", 512, 0, false)
		require.EqualError(t, img.Init(), "image /tiny.img holds no complete 512 byte sector")
	})

	t.Run("ReadWrite", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		contents := make([]byte, 8*512+100)
		for i := range contents {
			contents[i] = byte(i / 512)
		}
		require.NoError(t, afero.WriteFile(fs, "/disk.img", contents, 0o644))

		img := medium.NewImageFile(fs, "/disk.img", 512, 0, false)
		require.EqualError(t, img.ReadBlocks(0, make([]byte, 512), 1), "image is not open")
		require.NoError(t, img.Init())
		// The trailing partial sector is not addressable.
		require.Equal(t, uint64(8), img.MaxSector())

		buf := make([]byte, 2*512)
		require.NoError(t, img.ReadBlocks(6, buf, 2))
		require.Equal(t, append(bytes.Repeat([]byte{6}, 512), bytes.Repeat([]byte{7}, 512)...), buf)

		require.NoError(t, img.WriteBlocks(1, bytes.Repeat([]byte("A"), 512), 1))
		require.NoError(t, img.ReadBlocks(0, buf, 2))
		require.Equal(t, append(bytes.Repeat([]byte{0}, 512), bytes.Repeat([]byte("A"), 512)...), buf)

		require.NoError(t, img.Close())
		onDisk, err := afero.ReadFile(fs, "/disk.img")
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte("A"), 512), onDisk[512:1024])
	})

	t.Run("OutOfRange", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		img := medium.NewImageFile(fs, "/sd.img", 512, 4*512, false)
		require.NoError(t, img.Init())

		buf := make([]byte, 2*512)
		require.EqualError(t, img.ReadBlocks(3, buf, 2), "sectors [3, 5) out of range for image with 4 sectors")
		require.EqualError(t, img.WriteBlocks(4, buf, 1), "sectors [4, 5) out of range for image with 4 sectors")
		require.EqualError(t, img.ReadBlocks(0, buf, 3), "buffer too small: need 1536 bytes, got 1024")
	})

	t.Run("ReadOnly", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/ro.img", make([]byte, 2048), 0o644))
		img := medium.NewImageFile(fs, "/ro.img", 512, 0, true)
		require.NoError(t, img.Init())
		require.NoError(t, img.ReadBlocks(0, make([]byte, 512), 1))
		require.EqualError(t, img.WriteBlocks(0, make([]byte, 512), 1), "image /ro.img is opened read-only")
	})
}
