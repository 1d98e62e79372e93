package commands

import (
	"math"
	"strconv"
	"strings"
)

// Position is a screen coordinate parsed from an "x|y" argument.
type Position struct {
	X, Y int
}

// ParsePosition accepts exactly two '|'-separated base-10 non-negative
// integers. Each may carry surrounding spaces and a leading '+'. Values
// above math.MaxInt32 are rejected because the OS applies coordinates as
// signed 32-bit integers.
func ParsePosition(arg string) (Position, error) {
	fields := strings.Split(arg, "|")
	if len(fields) != 2 {
		return Position{}, ErrInvalidArguments
	}
	x, err := parseCoord(fields[0])
	if err != nil {
		return Position{}, err
	}
	y, err := parseCoord(fields[1])
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

func parseCoord(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v > math.MaxInt32 {
		return 0, ErrInvalidArguments
	}
	return int(v), nil
}
