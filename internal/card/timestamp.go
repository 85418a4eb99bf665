package card

import (
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/yildizm/errcard/internal/common"
)

// DefaultTimestampFormat is used when no format is configured
const DefaultTimestampFormat = "2006-01-02 15:04:05 MST"

// RelativeTime describes t relative to now, e.g. "5 minutes ago" or "in 2 hours"
func RelativeTime(now, t time.Time) string {
	delta := now.Sub(t)
	future := delta < 0
	if future {
		delta = -delta
	}
	if delta < 45*time.Second {
		return "just now"
	}

	var amount int
	var unit string
	switch {
	case delta < 45*time.Minute:
		amount, unit = roundUnits(delta, time.Minute), "minute"
	case delta < 22*time.Hour:
		amount, unit = roundUnits(delta, time.Hour), "hour"
	case delta < 26*24*time.Hour:
		amount, unit = roundUnits(delta, 24*time.Hour), "day"
	case delta < 320*24*time.Hour:
		amount, unit = roundUnits(delta, 30*24*time.Hour), "month"
	default:
		amount, unit = roundUnits(delta, 365*24*time.Hour), "year"
	}

	phrase := fmt.Sprintf("%d %ss", amount, unit)
	switch {
	case amount == 1 && unit == "hour":
		phrase = "an hour"
	case amount == 1:
		phrase = "a " + unit
	}

	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func roundUnits(d, unit time.Duration) int {
	n := int(math.Round(float64(d) / float64(unit)))
	if n < 1 {
		n = 1
	}
	return n
}

// TimestampLabel renders the relative time followed by the absolute time in
// the given layout and the local zone of clk. An unparsable timestamp is shown as is.
func TimestampLabel(clk clock.Clock, timestamp, layout string) string {
	if timestamp == "" {
		return ""
	}
	if layout == "" {
		layout = DefaultTimestampFormat
	}

	t, ok := common.ParseTimestamp(timestamp)
	if !ok {
		return timestamp
	}
	return fmt.Sprintf("%s (%s)", RelativeTime(clk.Now(), t), t.Local().Format(layout))
}
