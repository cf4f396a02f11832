package diskio

import "fmt"

// Drive identifies a logical drive slot.
type Drive uint8

const (
	// DriveSD is the SD card slot.
	DriveSD Drive = 0
)

func (d Drive) String() string {
	switch d {
	case DriveSD:
		return "SD"
	default:
		return fmt.Sprintf("drive%d", uint8(d))
	}
}

// Status is the outcome of Adapter.Status and Adapter.Initialize.
type Status uint8

const (
	StatusReady Status = iota
	StatusNotReady
	StatusInvalidDrive
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotReady:
		return "not ready"
	case StatusInvalidDrive:
		return "invalid drive"
	default:
		return "invalid/unknown"
	}
}

// Result is the closed set of failures returned by sector I/O and
// control requests. The low values follow the FatFs DRESULT numbering.
type Result uint8

const (
	ResultOK               Result = 0 /* Successful */
	ResultIOError          Result = 1 /* R/W error reported by the medium */
	ResultWriteProtected   Result = 2 /* Write protected */
	ResultNotReady         Result = 3 /* Not ready */
	ResultInvalidParameter Result = 4 /* Invalid parameter */
	ResultInvalidDrive     Result = 5
	ResultInvalidCommand   Result = 6
)

func (r Result) Error() string {
	var msg string
	switch r {
	case ResultOK:
		msg = "(0) Succeeded"
	case ResultIOError:
		msg = "(1) A hard error occurred in the medium"
	case ResultWriteProtected:
		msg = "(2) The drive is write protected"
	case ResultNotReady:
		msg = "(3) The drive has not been initialized"
	case ResultInvalidParameter:
		msg = "(4) Given parameter is invalid"
	case ResultInvalidDrive:
		msg = "(5) The drive number is invalid"
	case ResultInvalidCommand:
		msg = "(6) The control command is not supported"
	default:
		msg = "unknown result"
	}
	return "diskio: " + msg
}

// Command selects the side value requested through Adapter.Control.
type Command uint8

const (
	CommandSync           Command = 0 /* Complete pending write process */
	CommandGetSectorCount Command = 1 /* Get media size in sectors */
	CommandGetSectorSize  Command = 2 /* Get sector size in bytes */
	CommandGetBlockSize   Command = 3 /* Get erase block size in sectors */
)

func (c Command) String() string {
	switch c {
	case CommandSync:
		return "CTRL_SYNC"
	case CommandGetSectorCount:
		return "GET_SECTOR_COUNT"
	case CommandGetSectorSize:
		return "GET_SECTOR_SIZE"
	case CommandGetBlockSize:
		return "GET_BLOCK_SIZE"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}
