// Package rlog provides the small per-component logging helper used across
// rhythmic's internal packages, mirroring the teacher's httpLogger prefix
// convention.
package rlog

import (
	"fmt"
	"log"
	"os"
)

// New returns a *log.Logger prefixed with "[component] " writing to stderr
// with log.LstdFlags.
func New(component string) *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
}

// FormatPeriod renders a period in seconds as a human-readable duration
// ("12.0 hours", "45 seconds", "3.5 days"), grounded on the original
// Python collector's _format_period helper referenced from analysis metadata.
func FormatPeriod(seconds float64) string {
	switch {
	case seconds <= 0:
		return "unknown"
	case seconds < 60:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%.1f days", seconds/86400)
	default:
		return fmt.Sprintf("%.1f weeks", seconds/604800)
	}
}
