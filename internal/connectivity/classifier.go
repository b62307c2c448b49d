package connectivity

import (
	"fmt"
	"time"
)

// Status is the three-state connection classification derived purely from
// reading recency.
type Status string

const (
	StatusOnline  Status = "online"
	StatusWarning Status = "warning"
	StatusOffline Status = "offline"
)

const (
	onlineWindow  = 30 * time.Second
	warningWindow = 120 * time.Second
)

// Classify derives the connection status from the last-update timestamp.
// A nil timestamp means the device has never reported and is offline.
func Classify(updatedAt *time.Time, now time.Time) Status {
	if updatedAt == nil {
		return StatusOffline
	}

	age := now.Sub(*updatedAt)
	if age < onlineWindow {
		return StatusOnline
	}
	if age < warningWindow {
		return StatusWarning
	}
	return StatusOffline
}

// FormatTimeSince renders the age of the last update for display:
// "Nunca", "42s atrás", "3min atrás", "5h atrás", "2d atrás".
func FormatTimeSince(updatedAt *time.Time, now time.Time) string {
	if updatedAt == nil {
		return "Nunca"
	}

	diff := int(now.Sub(*updatedAt).Seconds())
	switch {
	case diff < 60:
		return fmt.Sprintf("%ds atrás", diff)
	case diff < 3600:
		return fmt.Sprintf("%dmin atrás", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh atrás", diff/3600)
	default:
		return fmt.Sprintf("%dd atrás", diff/86400)
	}
}
