package diskio

import "time"

// FatTime is a date and time packed the way FAT directory entries store
// it:
//
//	bit 31:25  year since 1980 (0..127)
//	bit 24:21  month (1..12)
//	bit 20:16  day of month (1..31)
//	bit 15:11  hour (0..23)
//	bit 10:5   minute (0..59)
//	bit 4:0    second / 2 (0..29)
type FatTime uint32

// DefaultTimestamp is reported when no clock is configured. It does not
// track wall clock time.
const DefaultTimestamp FatTime = (40 << 25) | (1 << 21) | (1 << 16) | (0 << 11) | (0 << 5) | (0 << 0)

var (
	fatTimeMin = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	fatTimeMax = time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)
)

// PackFatTime converts the wall clock fields of t. Times outside of the
// representable range are clamped.
func PackFatTime(t time.Time) FatTime {
	switch y := t.Year(); {
	case y < 1980:
		t = fatTimeMin
	case y > 2107:
		t = fatTimeMax
	}
	return FatTime(uint32(t.Year()-1980)<<25 |
		uint32(t.Month())<<21 |
		uint32(t.Day())<<16 |
		uint32(t.Hour())<<11 |
		uint32(t.Minute())<<5 |
		uint32(t.Second()/2))
}

// Time unpacks the value. FAT stores no zone, so the result is in UTC.
func (ft FatTime) Time() time.Time {
	v := uint32(ft)
	return time.Date(
		1980+int(v>>25),
		time.Month(v>>21&0x0f),
		int(v>>16&0x1f),
		int(v>>11&0x1f),
		int(v>>5&0x3f),
		int(v&0x1f)*2,
		0,
		time.UTC)
}

// Clock provides the time of day used for file metadata.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock reports the time of day of the operating system.
var SystemClock Clock = systemClock{}

type fixedClock struct {
	t time.Time
}

// NewFixedClock returns a Clock that always reports t.
func NewFixedClock(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time {
	return c.t
}
