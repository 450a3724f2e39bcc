package services

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Interval is a cron schedule that fires a fixed duration after the previous
// activation, keeping sub-second precision.
type Interval time.Duration

// Every returns an Interval schedule; non-positive durations become one second.
func Every(d time.Duration) Interval {
	if d <= 0 {
		d = time.Second
	}
	return Interval(d)
}

func (i Interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

var _ cron.Schedule = Interval(0)
