// Package util holds the small text formatters shared by the TUI and CLI.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.t, truncated to tenths.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("%d:%02d.%d", tenths/600, tenths/10%60, tenths%10)
}

// FormatHz formats a frequency rounded to whole hertz.
func FormatHz(f float64) string {
	return fmt.Sprintf("%.0f Hz", f)
}

// FormatPair formats a tone pair as "low + high".
func FormatPair(low, high float64) string {
	return FormatHz(low) + " + " + FormatHz(high)
}
