package diskio_test

import (
	"testing"
	"time"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/stretchr/testify/require"
)

func TestPackFatTime(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		require.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), diskio.DefaultTimestamp.Time())
		require.Equal(t, diskio.DefaultTimestamp, diskio.PackFatTime(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Fields", func(t *testing.T) {
		ft := diskio.PackFatTime(time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC))
		require.Equal(t, diskio.FatTime(44<<25|2<<21|29<<16|23<<11|59<<5|29), ft)
		// Seconds are stored with a two second resolution.
		require.Equal(t, time.Date(2024, time.February, 29, 23, 59, 58, 0, time.UTC), ft.Time())
	})

	t.Run("Clamped", func(t *testing.T) {
		require.Equal(t, diskio.FatTime(0x00210000), diskio.PackFatTime(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)))
		require.Equal(t,
			time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC),
			diskio.PackFatTime(time.Date(2200, time.June, 1, 0, 0, 0, 0, time.UTC)).Time())
	})
}
