// Package timecode parses the HH:MM:SS, MM:SS and SS forms accepted by the
// trim flags.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/vidscope/internal/types"
)

var (
	ErrBoundsPair  = errors.New("both --start-time and --end-time must be provided together")
	ErrBoundsOrder = errors.New("start time must be less than end time")
)

// ParseSeconds converts "HH:MM:SS", "MM:SS" or "SS" to seconds. Every
// component may carry a fractional part.
func ParseSeconds(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, invalid(s)
	}

	var total float64
	for _, p := range parts {
		v, err := parseComponent(p)
		if err != nil {
			return 0, invalid(s)
		}
		total = total*60 + v
	}
	return total, nil
}

func parseComponent(p string) (float64, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return 0, errors.New("empty component")
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("component out of range: %v", v)
	}
	return v, nil
}

func invalid(s string) error {
	return fmt.Errorf("invalid time format: %s. Use HH:MM:SS, MM:SS, or SS format", s)
}

// ParseRange validates the optional trim bounds. It returns nil when neither
// bound is set.
func ParseRange(start, end string, fast bool) (*types.TrimSpec, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, ErrBoundsPair
	}

	st, err := ParseSeconds(start)
	if err != nil {
		return nil, err
	}
	en, err := ParseSeconds(end)
	if err != nil {
		return nil, err
	}
	if st >= en {
		return nil, ErrBoundsOrder
	}
	return &types.TrimSpec{Start: st, End: en, Fast: fast}, nil
}

// FormatSeconds renders seconds the way ffmpeg's -ss/-t options expect.
func FormatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
