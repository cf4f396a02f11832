package medium

import (
	"errors"
	"fmt"

	"github.com/OffBroadway/diskio/pkg/diskio"
)

// ErrNoMedium is returned by Memory.Init while a simulated card is
// absent.
var ErrNoMedium = errors.New("no medium present")

var _ diskio.Medium = (*Memory)(nil)

// Memory is a medium backed by a byte slice. It starts out erased
// (every byte 0xff), like fresh flash.
type Memory struct {
	data         []byte
	sectorSize   uint32
	initFailures int
}

// NewMemory creates an erased medium of sectorCount sectors.
func NewMemory(sectorSize uint32, sectorCount uint64) *Memory {
	if sectorSize == 0 {
		sectorSize = DefaultSectorSize
	}
	m := &Memory{
		data:       make([]byte, uint64(sectorSize)*sectorCount),
		sectorSize: sectorSize,
	}
	for i := range m.data {
		m.data[i] = 0xff
	}
	return m
}

// FailInit makes the next n calls to Init fail with ErrNoMedium.
func (m *Memory) FailInit(n int) {
	m.initFailures = n
}

func (m *Memory) Init() error {
	if m.initFailures > 0 {
		m.initFailures--
		return ErrNoMedium
	}
	return nil
}

func (m *Memory) span(start uint64, buf []byte, count uint32) ([]byte, error) {
	sectorCount := m.MaxSector()
	if start >= sectorCount || uint64(count) > sectorCount-start {
		return nil, fmt.Errorf("sectors [%d, %d) out of range for medium with %d sectors", start, start+uint64(count), sectorCount)
	}
	offset := start * uint64(m.sectorSize)
	length := uint64(count) * uint64(m.sectorSize)
	if uint64(len(buf)) < length {
		return nil, fmt.Errorf("buffer too small: need %d bytes, got %d", length, len(buf))
	}
	return m.data[offset : offset+length], nil
}

func (m *Memory) ReadBlocks(start uint64, buf []byte, count uint32) error {
	sectors, err := m.span(start, buf, count)
	if err != nil {
		return err
	}
	copy(buf, sectors)
	return nil
}

func (m *Memory) WriteBlocks(start uint64, buf []byte, count uint32) error {
	sectors, err := m.span(start, buf, count)
	if err != nil {
		return err
	}
	copy(sectors, buf)
	return nil
}

func (m *Memory) MaxSector() uint64 {
	return uint64(len(m.data)) / uint64(m.sectorSize)
}

func (m *Memory) SectorSize() uint32 {
	return m.sectorSize
}
