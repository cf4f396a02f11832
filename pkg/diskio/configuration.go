package diskio

import (
	"fmt"
	"time"

	"github.com/OffBroadway/diskio/pkg/configuration"
)

// NewClockFromConfiguration returns the Clock selected by the
// timestamp field of a configuration file, or nil for the fixed
// default.
func NewClockFromConfiguration(timestamp string) (Clock, error) {
	switch timestamp {
	case "":
		return nil, nil
	case "system":
		return SystemClock, nil
	default:
		t, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %#v: %w", timestamp, err)
		}
		return NewFixedClock(t), nil
	}
}

// NewOptionsFromConfiguration translates the adapter related fields of
// a configuration file into Options.
func NewOptionsFromConfiguration(configuration *configuration.Configuration) ([]Option, error) {
	options := []Option{WithReadOnly(configuration.ReadOnly)}
	if configuration.EraseBlockSizeSectors != 0 {
		options = append(options, WithEraseBlockSize(configuration.EraseBlockSizeSectors))
	}
	clock, err := NewClockFromConfiguration(configuration.Timestamp)
	if err != nil {
		return nil, err
	}
	if clock != nil {
		options = append(options, WithClock(clock))
	}
	return options, nil
}
