package promclient

import (
	"fmt"
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`^(\d+)([hdwm])$`)

// ParseDuration implements the duration-string grammar from spec.md §6:
// ^(\d+)([hdwm])$ where h=3600s, d=86400s, w=604800s, m=2592000s.
func ParseDuration(duration string) (int, error) {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return 0, fmt.Errorf("invalid duration format: %q (use 1h, 7d, 1w, 1m)", duration)
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %q", duration)
	}
	multipliers := map[string]int{"h": 3600, "d": 86400, "w": 604800, "m": 2592000}
	return value * multipliers[match[2]], nil
}
