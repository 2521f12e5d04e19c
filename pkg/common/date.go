package common

import (
	"time"
)

// Date is days since the unix epoch.
type Date int32

// Timestamp is microseconds since the unix epoch.
type Timestamp int64

// Interval is a duration in microseconds.
type Interval int64

const secondsPerDay = 24 * 60 * 60

func (d Date) ToTime() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Date) String() string {
	return d.ToTime().Format(time.DateOnly)
}

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

func (ts Timestamp) ToTime() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}

func (ts Timestamp) String() string {
	return ts.ToTime().Format(time.RFC3339Nano)
}

func IntervalFromDuration(d time.Duration) Interval {
	return Interval(d.Microseconds())
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i) * time.Microsecond
}

func (i Interval) String() string {
	return i.Duration().String()
}
