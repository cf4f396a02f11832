package configuration_test

import (
	"testing"

	"github.com/OffBroadway/diskio/pkg/configuration"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfiguration(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		var c configuration.Configuration
		require.NoError(t, configuration.UnmarshalConfiguration("diskio.jsonnet", `
			local sectorSize = 512;
			{
			  logLevel: 'debug',
			  readOnly: false,
			  eraseBlockSizeSectors: 16,
			  timestamp: 'system',
			  drives: [{
			    drive: 0,
			    name: 'sd',
			    sectorSizeBytes: sectorSize,
			    image: { path: std.extVar('IMAGE'), sizeBytes: 2048 * sectorSize },
			  }],
			  ftp: { listenAddress: ':7021', username: 'sd', password: 'card' },
			  httpListenAddress: ':7080',
			}`, []string{"IMAGE=/var/lib/diskio/sd.img"}, &c))

		require.Equal(t, configuration.Configuration{
			LogLevel:              "debug",
			EraseBlockSizeSectors: 16,
			Timestamp:             "system",
			Drives: []configuration.DriveConfiguration{{
				Drive:           0,
				Name:            "sd",
				SectorSizeBytes: 512,
				Image: &configuration.ImageConfiguration{
					Path:      "/var/lib/diskio/sd.img",
					SizeBytes: 1048576,
				},
			}},
			Ftp: &configuration.FtpConfiguration{
				ListenAddress: ":7021",
				Username:      "sd",
				Password:      "card",
			},
			HttpListenAddress: ":7080",
		}, c)
	})

	t.Run("UnknownField", func(t *testing.T) {
		var c configuration.Configuration
		err := configuration.UnmarshalConfiguration("diskio.jsonnet", `{ drivez: [] }`, nil, &c)
		require.ErrorContains(t, err, "failed to unmarshal configuration")
	})

	t.Run("SyntaxError", func(t *testing.T) {
		var c configuration.Configuration
		err := configuration.UnmarshalConfiguration("diskio.jsonnet", `{ drives: [ }`, nil, &c)
		require.ErrorContains(t, err, "failed to evaluate configuration")
	})

	t.Run("InvalidEnvironment", func(t *testing.T) {
		var c configuration.Configuration
		err := configuration.UnmarshalConfiguration("diskio.jsonnet", `{}`, []string{"NOVALUE"}, &c)
		require.EqualError(t, err, `invalid environment variable: "NOVALUE"`)
	})
}

func TestValidate(t *testing.T) {
	image := &configuration.ImageConfiguration{Path: "/sd.img"}
	memory := &configuration.MemoryConfiguration{SizeBytes: 4096}

	for name, tc := range map[string]struct {
		drives []configuration.DriveConfiguration
		err    string
	}{
		"NoDrives": {
			err: "no drives configured",
		},
		"DuplicateDrive": {
			drives: []configuration.DriveConfiguration{
				{Drive: 0, Name: "a", Image: image},
				{Drive: 0, Name: "b", Image: image},
			},
			err: "drive 0 configured more than once",
		},
		"DuplicateName": {
			drives: []configuration.DriveConfiguration{
				{Drive: 0, Name: "a", Image: image},
				{Drive: 1, Name: "a", Memory: memory},
			},
			err: `drives[1]: name "a" used more than once`,
		},
		"InvalidName": {
			drives: []configuration.DriveConfiguration{{Name: "a/b", Image: image}},
			err:    `drives[0]: invalid name "a/b"`,
		},
		"SectorSize": {
			drives: []configuration.DriveConfiguration{{Name: "a", SectorSizeBytes: 520, Image: image}},
			err:    "drives[0]: sector size 520 is not a power of two of at least 512",
		},
		"BothMedia": {
			drives: []configuration.DriveConfiguration{{Name: "a", Image: image, Memory: memory}},
			err:    "drives[0]: exactly one of image or memory must be set",
		},
		"NoMedium": {
			drives: []configuration.DriveConfiguration{{Name: "a"}},
			err:    "drives[0]: exactly one of image or memory must be set",
		},
		"EmptyMemory": {
			drives: []configuration.DriveConfiguration{{Name: "a", Memory: &configuration.MemoryConfiguration{}}},
			err:    "drives[0]: memory size 0 does not hold a 512 byte sector",
		},
		"MemoryBelowSector": {
			drives: []configuration.DriveConfiguration{{Name: "a", SectorSizeBytes: 4096, Memory: &configuration.MemoryConfiguration{SizeBytes: 2048}}},
			err:    "drives[0]: memory size 2048 does not hold a 4096 byte sector",
		},
	} {
		t.Run(name, func(t *testing.T) {
			c := configuration.Configuration{Drives: tc.drives}
			require.EqualError(t, c.Validate(), tc.err)
		})
	}

	c := configuration.Configuration{Drives: []configuration.DriveConfiguration{
		{Drive: 0, Name: "sd", SectorSizeBytes: 4096, Image: image},
		{Drive: 1, Name: "scratch", Memory: &configuration.MemoryConfiguration{SizeBytes: 512}},
	}}
	require.NoError(t, c.Validate())
}
