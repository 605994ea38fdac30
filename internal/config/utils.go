package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errInvalidSize = errors.New("invalid size")

// parseSize converts a human-readable size string (e.g., "10MB") to bytes
func parseSize(size string) (uint64, error) {
	var multiplier uint64 = 1
	size = strings.ToUpper(strings.TrimSpace(size))

	switch {
	case strings.HasSuffix(size, "KB"):
		multiplier = 1024
		size = strings.TrimSuffix(size, "KB")
	case strings.HasSuffix(size, "MB"):
		multiplier = 1024 * 1024
		size = strings.TrimSuffix(size, "MB")
	case strings.HasSuffix(size, "GB"):
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(size, "GB")
	case strings.HasSuffix(size, "B"):
		size = strings.TrimSuffix(size, "B")
	}

	value, err := strconv.ParseUint(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidSize, size)
	}

	if value > math.MaxUint64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", errInvalidSize, size)
	}

	return value * multiplier, nil
}
