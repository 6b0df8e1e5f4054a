package scheduler

import (
	"fmt"
	"time"
)

// Every is a descriptor for a fixed interval.
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// DailyAt turns "HH:MM" into a cron expression firing once a day.
func DailyAt(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("daily time %q: want HH:MM", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
