package dashboard

import (
	"context"
	"time"
)

const (
	// ClockRegionID is the display region that shows when the page was queried.
	ClockRegionID        = "current-date-time"
	defaultClockInterval = time.Minute
)

// Clock keeps the "queried at" display region current.
type Clock struct {
	board     *RegionBoard
	formatter DateFormatter
	region    string
	interval  time.Duration
	now       func() time.Time
}

// NewClock builds a clock writing into region every interval. Empty values
// fall back to ClockRegionID and one minute.
func NewClock(board *RegionBoard, formatter DateFormatter, region string, interval time.Duration) *Clock {
	if region == "" {
		region = ClockRegionID
	}
	if interval <= 0 {
		interval = defaultClockInterval
	}
	if board == nil {
		board = NewRegionBoard(nil)
	}
	board.Define(region, RegionDisplay)
	return &Clock{
		board:     board,
		formatter: formatter,
		region:    region,
		interval:  interval,
		now:       time.Now,
	}
}

// Region returns the display region id.
func (c *Clock) Region() string {
	return c.region
}

// Tick writes the current date and time once.
func (c *Clock) Tick() {
	now := c.now()
	c.board.ShowText(context.Background(), c.region, MsgQueriedAt,
		c.formatter.Format(now, PatternDayMonthYear),
		c.formatter.Format(now, PatternHourMinute),
	)
}

// Run ticks until ctx is done.
func (c *Clock) Run(ctx context.Context) error {
	c.Tick()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}
