package diskio

// Medium is the hardware access layer behind a drive. Every call is
// synchronous and reports plain pass/fail; any retrying or timeouts are
// up to the implementation.
type Medium interface {
	// Init brings the medium into a state where it accepts transfers.
	Init() error
	// ReadBlocks reads count sectors starting at start into buf.
	ReadBlocks(start uint64, buf []byte, count uint32) error
	// WriteBlocks writes count sectors from buf starting at start.
	WriteBlocks(start uint64, buf []byte, count uint32) error
	// MaxSector returns the capacity of the medium in sectors.
	MaxSector() uint64
	// SectorSize returns the size of a sector in bytes.
	SectorSize() uint32
}
