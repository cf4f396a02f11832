package diskio

import (
	"sort"

	log "github.com/fclairamb/go-log"
	"github.com/fclairamb/go-log/noop"
)

// DefaultEraseBlockSize is reported for CommandGetBlockSize when no
// other value is configured. It is not queried from the medium.
const DefaultEraseBlockSize = 8

type drive struct {
	medium Medium
	ready  bool
}

// Adapter translates the block device contract that a FAT file system
// driver expects into Medium calls. It tracks for every registered
// drive whether its medium has been initialized, and refuses all
// sector I/O until it has.
//
// An Adapter is not safe for concurrent use. Callers that share one
// must serialize their calls.
type Adapter struct {
	drives         map[Drive]*drive
	logger         log.Logger
	clock          Clock
	eraseBlockSize uint32
	readOnly       bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger that receives medium failures.
func WithLogger(logger log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithClock sets the source of Timestamp. Without it, Timestamp
// returns DefaultTimestamp.
func WithClock(clock Clock) Option {
	return func(a *Adapter) {
		a.clock = clock
	}
}

// WithEraseBlockSize overrides the value reported for
// CommandGetBlockSize, in sectors.
func WithEraseBlockSize(sectors uint32) Option {
	return func(a *Adapter) {
		a.eraseBlockSize = sectors
	}
}

// WithReadOnly makes Write reject every request with
// ResultWriteProtected.
func WithReadOnly(readOnly bool) Option {
	return func(a *Adapter) {
		a.readOnly = readOnly
	}
}

// NewAdapter creates an Adapter serving the given drives. All drives
// start out uninitialized.
func NewAdapter(devices map[Drive]Medium, options ...Option) *Adapter {
	a := &Adapter{
		drives:         make(map[Drive]*drive, len(devices)),
		logger:         noop.NewNoOpLogger(),
		eraseBlockSize: DefaultEraseBlockSize,
	}
	for pdrv, medium := range devices {
		a.drives[pdrv] = &drive{medium: medium}
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Drives returns the registered drives in ascending order.
func (a *Adapter) Drives() []Drive {
	drives := make([]Drive, 0, len(a.drives))
	for pdrv := range a.drives {
		drives = append(drives, pdrv)
	}
	sort.Slice(drives, func(i, j int) bool { return drives[i] < drives[j] })
	return drives
}

// ReadOnly reports whether writes are rejected.
func (a *Adapter) ReadOnly() bool {
	return a.readOnly
}

// Status reports the state of a drive without touching its medium.
func (a *Adapter) Status(pdrv Drive) Status {
	d, ok := a.drives[pdrv]
	if !ok {
		return StatusInvalidDrive
	}
	if !d.ready {
		return StatusNotReady
	}
	return StatusReady
}

// Initialize initializes the medium of a drive. Once that succeeded
// the drive stays ready and later calls return StatusReady without
// touching the medium again. After a failure the drive stays not
// ready and the call may be repeated.
func (a *Adapter) Initialize(pdrv Drive) Status {
	d, ok := a.drives[pdrv]
	if !ok {
		return StatusInvalidDrive
	}
	if !d.ready {
		if err := d.medium.Init(); err != nil {
			a.logger.Error("Medium initialization failed", "drive", pdrv, "err", err)
			return StatusNotReady
		}
		d.ready = true
		a.logger.Debug("Drive ready", "drive", pdrv)
	}
	return StatusReady
}

// lookup returns the drive if it may service sector level requests.
func (a *Adapter) lookup(pdrv Drive) (*drive, error) {
	d, ok := a.drives[pdrv]
	if !ok {
		return nil, ResultInvalidDrive
	}
	if !d.ready {
		return nil, ResultNotReady
	}
	return d, nil
}

// transferSize returns the number of bytes of buf covered by count
// sectors, or ResultInvalidParameter if buf cannot hold them.
func transferSize(d *drive, buf []byte, count uint32) (int, error) {
	if count == 0 {
		return 0, ResultInvalidParameter
	}
	length := uint64(count) * uint64(d.medium.SectorSize())
	if uint64(len(buf)) < length {
		return 0, ResultInvalidParameter
	}
	return int(length), nil
}

// Read reads count sectors starting at sector into buf. On failure the
// contents of buf are undefined.
func (a *Adapter) Read(pdrv Drive, buf []byte, sector uint64, count uint32) error {
	d, err := a.lookup(pdrv)
	if err != nil {
		return err
	}
	length, err := transferSize(d, buf, count)
	if err != nil {
		return err
	}
	if err := d.medium.ReadBlocks(sector, buf[:length], count); err != nil {
		a.logger.Error("Medium read failed", "drive", pdrv, "sector", sector, "count", count, "err", err)
		return ResultIOError
	}
	return nil
}

// Write writes count sectors from buf starting at sector. On failure
// it is unknown which sectors, if any, reached the medium.
func (a *Adapter) Write(pdrv Drive, buf []byte, sector uint64, count uint32) error {
	d, err := a.lookup(pdrv)
	if err != nil {
		return err
	}
	if a.readOnly {
		return ResultWriteProtected
	}
	length, err := transferSize(d, buf, count)
	if err != nil {
		return err
	}
	if err := d.medium.WriteBlocks(sector, buf[:length], count); err != nil {
		a.logger.Error("Medium write failed", "drive", pdrv, "sector", sector, "count", count, "err", err)
		return ResultIOError
	}
	return nil
}

// Control services a control command. Commands that return a value
// store it in out; out is left untouched on failure and for
// CommandSync.
func (a *Adapter) Control(pdrv Drive, cmd Command, out *uint64) error {
	d, err := a.lookup(pdrv)
	if err != nil {
		return err
	}
	switch cmd {
	case CommandSync:
		// Media write through, there is nothing to flush.
		return nil
	case CommandGetSectorCount, CommandGetSectorSize, CommandGetBlockSize:
	default:
		return ResultInvalidCommand
	}
	if out == nil {
		return ResultInvalidParameter
	}
	switch cmd {
	case CommandGetSectorCount:
		*out = d.medium.MaxSector()
	case CommandGetSectorSize:
		*out = uint64(d.medium.SectorSize())
	case CommandGetBlockSize:
		*out = uint64(a.eraseBlockSize)
	}
	return nil
}

// Timestamp returns the time to record in file metadata.
func (a *Adapter) Timestamp() FatTime {
	if a.clock == nil {
		return DefaultTimestamp
	}
	return PackFatTime(a.clock.Now())
}
