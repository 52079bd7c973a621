package version

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBuild reads a CMS build stamp. Only plain digit strings are accepted.
func ParseBuild(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty build stamp")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("build stamp %q is not numeric", s)
		}
	}
	return strconv.Atoi(s)
}

// Compare returns 1 if latest is newer than current, -1 if older and 0 if equal.
func Compare(latest string, current int) (int, error) {
	build, err := ParseBuild(latest)
	if err != nil {
		return 0, err
	}

	switch {
	case build > current:
		return 1, nil
	case build < current:
		return -1, nil
	default:
		return 0, nil
	}
}
