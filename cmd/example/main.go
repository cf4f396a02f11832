package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/OffBroadway/diskio/pkg/diskio"
	"github.com/OffBroadway/diskio/pkg/medium"
	"github.com/spf13/afero"

	gologrus "github.com/fclairamb/go-log/logrus"
)

const (
	testSize   = 0x10000
	iterations = 16
)

// Writes a test pattern to the start of a drive and reads it back
// repeatedly. The drive is an image file when a path is given, and
// memory otherwise.
func main() {
	logger := gologrus.New()

	var m diskio.Medium = medium.NewMemory(medium.DefaultSectorSize, 2*testSize/medium.DefaultSectorSize)
	if len(os.Args) > 1 {
		img := medium.NewImageFile(afero.NewOsFs(), os.Args[1], medium.DefaultSectorSize, 2*testSize, false)
		defer img.Close()
		m = img
	}

	adapter := diskio.NewAdapter(
		map[diskio.Drive]diskio.Medium{diskio.DriveSD: m},
		diskio.WithLogger(logger))

	if status := adapter.Initialize(diskio.DriveSD); status != diskio.StatusReady {
		fmt.Println("Could not initialize drive:", status)
		os.Exit(1)
	}

	var sectorSize, sectorCount uint64
	if err := adapter.Control(diskio.DriveSD, diskio.CommandGetSectorSize, &sectorSize); err != nil {
		panic(err)
	}
	if err := adapter.Control(diskio.DriveSD, diskio.CommandGetSectorCount, &sectorCount); err != nil {
		panic(err)
	}
	fmt.Printf("Drive ready: %d sectors of %d bytes\n", sectorCount, sectorSize)

	count := uint32(testSize / sectorSize)
	data := bytes.Repeat([]byte("A"), testSize)
	if err := adapter.Write(diskio.DriveSD, data, 0, count); err != nil {
		panic(err)
	}
	if err := adapter.Control(diskio.DriveSD, diskio.CommandSync, nil); err != nil {
		panic(err)
	}

	buf := make([]byte, testSize)
	for i := 0; i < iterations; i++ {
		clear(buf)
		if err := adapter.Read(diskio.DriveSD, buf, 0, count); err != nil {
			panic(err)
		}
		if !bytes.Equal(buf, data) {
			fmt.Println("Memory read error.")
			os.Exit(1)
		}
	}

	fmt.Printf("Read back %d bytes %d times, file timestamp %s\n", testSize, iterations, adapter.Timestamp().Time().Format("2006-01-02 15:04:05"))
	fmt.Println("Done!")
}
