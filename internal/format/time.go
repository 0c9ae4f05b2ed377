package format

import (
	"fmt"
	"time"
)

const (
	lookbackHours = 4
	lookbackDays  = 6
)

// RelativeTime formats t relative to now, in now's location.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 2*time.Minute:
		return fmt.Sprintf("-%ds ago", int64(d/time.Second))
	case d < 2*time.Hour:
		return fmt.Sprintf("-%dm ago", int64(d/time.Minute))
	case d < lookbackHours*time.Hour:
		return fmt.Sprintf("-%dh ago", int64(d/time.Hour))
	case d < lookbackDays*24*time.Hour:
		return t.In(now.Location()).Format("Mon 03:04PM")
	default:
		return t.In(now.Location()).Format("01/02/06 03:04PM")
	}
}
